package profiles

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/internal/marshal"
	"github.com/gridbridge/profilegw/pkg/models"
	"github.com/gridbridge/profilegw/pkg/wire"
)

// checkSchema serializes rec, optionally passes the field map through JSON
// text the way the remote service sees it, and decodes it into a zero value.
func checkSchema[T comparable](t *testing.T, s *marshal.Schema[T], rec T) {
	t.Helper()
	for _, viaJSON := range []bool{false, true} {
		m := s.Serialize(&rec)
		if m.Len() != len(s.Fields()) {
			t.Fatalf("%s: serialized %d fields, want %d", s.Name(), m.Len(), len(s.Fields()))
		}
		if viaJSON {
			b, err := json.Marshal(m)
			if err != nil {
				t.Fatalf("%s: Marshal() error = %v", s.Name(), err)
			}
			v, err := wire.Decode(b)
			if err != nil {
				t.Fatalf("%s: Decode() error = %v", s.Name(), err)
			}
			var ok bool
			if m, ok = v.AsMap(); !ok {
				t.Fatalf("%s: decoded %s, want map", s.Name(), v.Kind())
			}
		}

		var back T
		if skipped := s.Deserialize(m, &back); len(skipped) != 0 {
			t.Errorf("%s (json=%v): skipped %v", s.Name(), viaJSON, skipped)
		}
		if back != rec {
			t.Errorf("%s (json=%v): got %+v, want %+v", s.Name(), viaJSON, back, rec)
		}
	}
}

func TestSchemas_RoundTrip(t *testing.T) {
	pos := models.Vector3{X: 256010.5, Y: 256276, Z: 22.25}

	t.Run("classified", func(t *testing.T) {
		checkSchema(t, classifiedSchema, models.Classified{
			ClassifiedID:   uuid.New(),
			CreatorID:      uuid.New(),
			CreationDate:   1700000000,
			ExpirationDate: 1700604800,
			Category:       7,
			Name:           "Beach house",
			Description:    "Ocean view, \"quiet\" neighbours",
			ParcelID:       uuid.New(),
			ParentEstate:   1,
			SnapshotID:     uuid.New(),
			SimName:        "Sandbox",
			GlobalPos:      pos,
			ParcelName:     "Dunes",
			Flags:          200,
			Price:          50,
		})
	})

	t.Run("pick", func(t *testing.T) {
		checkSchema(t, pickSchema, models.Pick{
			PickID:       uuid.New(),
			CreatorID:    uuid.New(),
			TopPick:      true,
			Name:         "Lighthouse",
			OriginalName: "Old lighthouse",
			Desc:         "Best sunsets",
			ParcelID:     uuid.New(),
			SnapshotID:   uuid.New(),
			User:         "Jo Resident",
			SimName:      "Harbor",
			GlobalPos:    pos,
			SortOrder:    3,
			Enabled:      true,
		})
	})

	t.Run("notes", func(t *testing.T) {
		checkSchema(t, notesSchema, models.Notes{
			UserID:   uuid.New(),
			TargetID: uuid.New(),
			Notes:    "met at the\nwelcome area",
		})
	})

	t.Run("preferences", func(t *testing.T) {
		checkSchema(t, preferencesSchema, models.Preferences{
			UserID:     uuid.New(),
			IMViaEmail: true,
			Visible:    true,
			Email:      "jo@example.org",
		})
	})

	t.Run("properties", func(t *testing.T) {
		checkSchema(t, propertiesSchema, models.Properties{
			UserID:           uuid.New(),
			PartnerID:        uuid.New(),
			PublishProfile:   true,
			PublishMature:    true,
			WebURL:           "http://example.org/jo",
			WantToMask:       0x55,
			WantToText:       "build",
			SkillsMask:       0x0f,
			SkillsText:       "scripting",
			Language:         "en, pt",
			ImageID:          uuid.New(),
			AboutText:        "hello",
			FirstLifeImageID: uuid.New(),
			FirstLifeText:    "rl",
		})
	})
}

func TestClassifiedSchema_FlagsOutOfRangeSkipped(t *testing.T) {
	var m wire.FieldMap
	m.Set("Flags", wire.Int(256))
	m.Set("Price", wire.Int(10))

	c := models.Classified{Flags: 4}
	skipped := classifiedSchema.Deserialize(m, &c)
	if len(skipped) != 1 || skipped[0] != "Flags" {
		t.Fatalf("skipped = %v, want [Flags]", skipped)
	}
	if c.Flags != 4 || c.Price != 10 {
		t.Errorf("got Flags %d Price %d", c.Flags, c.Price)
	}
}
