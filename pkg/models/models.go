// Package models holds the profile records exchanged with the remote profile
// service and returned to the session layer.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RegionSize is the edge length of a region in metres; global positions are
// region grid coordinates scaled by it plus the local position.
const RegionSize = 256

// ── Spatial ──────────────────────────────────────────────────

// Vector3 is a position in region or global coordinates.
type Vector3 struct {
	X, Y, Z float32
}

// String returns the wire layout "X,Y,Z".
func (v Vector3) String() string {
	return formatFloat(v.X) + "," + formatFloat(v.Y) + "," + formatFloat(v.Z)
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// ParseVector3 parses "X,Y,Z". Surrounding angle brackets and whitespace
// around components are accepted so older "<X, Y, Z>" values still load.
func ParseVector3(s string) (Vector3, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Vector3{}, fmt.Errorf("vector %q: want 3 components, got %d", s, len(parts))
	}
	var out [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Vector3{}, fmt.Errorf("vector %q: component %d: %w", s, i, err)
		}
		out[i] = float32(f)
	}
	return Vector3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// GlobalPosition converts a region-local position into global coordinates
// for the region at grid location (locX, locY).
func GlobalPosition(locX, locY uint32, local Vector3) Vector3 {
	return Vector3{
		X: float32(locX)*RegionSize + local.X,
		Y: float32(locY)*RegionSize + local.Y,
		Z: local.Z,
	}
}

// ── Classifieds ──────────────────────────────────────────────

// Classified is a classified advertisement.
type Classified struct {
	ClassifiedID   uuid.UUID `json:"classified_id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	CreationDate   int       `json:"creation_date"`
	ExpirationDate int       `json:"expiration_date"`
	Category       int       `json:"category"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ParcelID       uuid.UUID `json:"parcel_id"`
	ParentEstate   int       `json:"parent_estate"`
	SnapshotID     uuid.UUID `json:"snapshot_id"`
	SimName        string    `json:"sim_name"`
	GlobalPos      Vector3   `json:"global_pos"`
	ParcelName     string    `json:"parcel_name"`
	Flags          uint8     `json:"flags"`
	Price          int       `json:"price"`
}

// ClassifiedSummary is one entry of an avatar's classifieds listing.
type ClassifiedSummary struct {
	ClassifiedID uuid.UUID `json:"classified_id"`
	Name         string    `json:"name"`
}

// ── Picks ────────────────────────────────────────────────────

// Pick is a favourite place in an avatar's profile.
type Pick struct {
	PickID       uuid.UUID `json:"pick_id"`
	CreatorID    uuid.UUID `json:"creator_id"`
	TopPick      bool      `json:"top_pick"`
	Name         string    `json:"name"`
	OriginalName string    `json:"original_name"`
	Desc         string    `json:"desc"`
	ParcelID     uuid.UUID `json:"parcel_id"`
	SnapshotID   uuid.UUID `json:"snapshot_id"`
	User         string    `json:"user"` // land owner name
	SimName      string    `json:"sim_name"`
	GlobalPos    Vector3   `json:"global_pos"`
	SortOrder    int       `json:"sort_order"`
	Enabled      bool      `json:"enabled"`
}

// PickSummary is one entry of an avatar's picks listing.
type PickSummary struct {
	PickID uuid.UUID `json:"pick_id"`
	Name   string    `json:"name"`
}

// PickUpdate carries what the session layer knows when a pick is saved.
// The global position is derived from the region location and the avatar's
// local position.
type PickUpdate struct {
	PickID        uuid.UUID `json:"pick_id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	TopPick       bool      `json:"top_pick"`
	Name          string    `json:"name"`
	Desc          string    `json:"desc"`
	SnapshotID    uuid.UUID `json:"snapshot_id"`
	SortOrder     int       `json:"sort_order"`
	Enabled       bool      `json:"enabled"`
	ParcelID      uuid.UUID `json:"parcel_id"`
	LandOwnerName string    `json:"land_owner_name"`
	SimName       string    `json:"sim_name"`
	RegionLocX    uint32    `json:"region_loc_x"`
	RegionLocY    uint32    `json:"region_loc_y"`
	LocalPos      Vector3   `json:"local_pos"`
}

// ── Notes & Preferences ──────────────────────────────────────

// Notes are private notes one user keeps about another.
type Notes struct {
	UserID   uuid.UUID `json:"user_id"`
	TargetID uuid.UUID `json:"target_id"`
	Notes    string    `json:"notes"`
}

// Preferences are per-user messaging and directory visibility settings.
type Preferences struct {
	UserID     uuid.UUID `json:"user_id"`
	IMViaEmail bool      `json:"im_via_email"`
	Visible    bool      `json:"visible"`
	Email      string    `json:"email"`
}

// ── Avatar properties ────────────────────────────────────────

// Properties is the editable part of an avatar profile, including interests.
type Properties struct {
	UserID           uuid.UUID `json:"user_id"`
	PartnerID        uuid.UUID `json:"partner_id"`
	PublishProfile   bool      `json:"publish_profile"`
	PublishMature    bool      `json:"publish_mature"`
	WebURL           string    `json:"web_url"`
	WantToMask       int       `json:"want_to_mask"`
	WantToText       string    `json:"want_to_text"`
	SkillsMask       int       `json:"skills_mask"`
	SkillsText       string    `json:"skills_text"`
	Language         string    `json:"language"`
	ImageID          uuid.UUID `json:"image_id"`
	AboutText        string    `json:"about_text"`
	FirstLifeImageID uuid.UUID `json:"first_life_image_id"`
	FirstLifeText    string    `json:"first_life_text"`
}

// PropertiesUpdate is the subset of Properties a user edits from the
// profile window.
type PropertiesUpdate struct {
	UserID           uuid.UUID `json:"user_id"`
	WebURL           string    `json:"web_url"`
	ImageID          uuid.UUID `json:"image_id"`
	AboutText        string    `json:"about_text"`
	FirstLifeImageID uuid.UUID `json:"first_life_image_id"`
	FirstLifeText    string    `json:"first_life_text"`
}

// Interests is the subset of Properties edited from the interests tab.
type Interests struct {
	WantToMask uint32 `json:"want_to_mask"`
	WantToText string `json:"want_to_text"`
	SkillsMask uint32 `json:"skills_mask"`
	SkillsText string `json:"skills_text"`
	Language   string `json:"language"`
}

// ── Accounts ─────────────────────────────────────────────────

// UserAccount is what the identity directory knows about a user.
type UserAccount struct {
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Title     string    `json:"title"`
	Flags     int       `json:"flags"`
	Created   time.Time `json:"created"`
}

// ForeignUserInfo is the account summary a visitor's home grid publishes.
type ForeignUserInfo struct {
	Flags   int   `json:"user_flags"`
	Created int64 `json:"user_created"` // unix seconds, 0 when unknown
}

// AvatarProfile is the assembled reply to a profile request.
type AvatarProfile struct {
	Properties    Properties `json:"properties"`
	BornOn        string     `json:"born_on"`
	CharterMember []byte     `json:"charter_member"`
	Flags         uint32     `json:"flags"`
	Foreign       bool       `json:"foreign"`
}
