package homegrid_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/internal/homegrid"
	"github.com/gridbridge/profilegw/internal/jsonrpc"
)

func homeServer(t *testing.T, body string, gotUser chan<- string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env struct {
			Method string            `json:"method"`
			Params map[string]string `json:"params"`
		}
		json.NewDecoder(r.Body).Decode(&env)
		if env.Method != homegrid.MethodUserInfo {
			io.WriteString(w, `{"error":{"code":-32601,"message":"method not found"}}`)
			return
		}
		if gotUser != nil {
			gotUser <- env.Params["userID"]
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestUserInfo(t *testing.T) {
	user := uuid.New()
	gotUser := make(chan string, 1)
	url := homeServer(t, `{"result":{"user_flags":768,"user_created":1300000000,"user_title":"ignored"}}`, gotUser)

	info, err := homegrid.New(jsonrpc.NewClient()).UserInfo(context.Background(), url, user)
	if err != nil {
		t.Fatalf("UserInfo() error = %v", err)
	}
	if got := <-gotUser; got != user.String() {
		t.Errorf("userID param = %q, want %s", got, user)
	}
	if info.Flags != 768 || info.Created != 1300000000 {
		t.Errorf("UserInfo() = %+v", info)
	}
}

func TestUserInfo_Partial(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty record", `{"result":{}}`},
		{"null result", `{"result":null}`},
		{"mistyped members", `{"result":{"user_flags":"","user_created":""}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := homeServer(t, tt.body, nil)
			info, err := homegrid.New(jsonrpc.NewClient()).UserInfo(context.Background(), url, uuid.New())
			if err != nil {
				t.Fatalf("UserInfo() error = %v", err)
			}
			if info.Flags != 0 || info.Created != 0 {
				t.Errorf("UserInfo() = %+v, want zero", info)
			}
		})
	}
}

func TestUserInfo_Failures(t *testing.T) {
	c := homegrid.New(jsonrpc.NewClient())

	url := homeServer(t, `{"result":[1,2]}`, nil)
	if _, err := c.UserInfo(context.Background(), url, uuid.New()); !errors.Is(err, homegrid.ErrNotRecord) {
		t.Errorf("UserInfo(list) error = %v, want ErrNotRecord", err)
	}

	url = homeServer(t, `{"error":{"code":1,"message":"unknown user"}}`, nil)
	_, err := c.UserInfo(context.Background(), url, uuid.New())
	if jsonrpc.FailureOf(err) != jsonrpc.FailureRemote {
		t.Errorf("UserInfo(remote error) failure = %s (err %v)", jsonrpc.FailureOf(err), err)
	}
}
