package profiles

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gridbridge/profilegw/pkg/contracts"
	"github.com/gridbridge/profilegw/pkg/models"
)

const (
	bornOnLayout = "1/2/2006"

	titleVisitor     = "HG Visitor"
	titleUnavailable = "Unavailable"
)

// AvatarProfile returns avatarID's profile properties together with the
// account details shown next to them.
func (s *Service) AvatarProfile(ctx context.Context, agentID, avatarID uuid.UUID) (*models.AvatarProfile, error) {
	const op, msg = "properties", "Error requesting properties"

	ep, err := s.endpoint(ctx, avatarID)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	props, err := exchange(ctx, s.rpc, ep.URI, MethodProperties, propertiesSchema, models.Properties{UserID: avatarID})
	if err != nil {
		return nil, fail(op, msg, err)
	}

	profile := s.accountInfo(ctx, avatarID)
	profile.Properties = props
	return profile, nil
}

// accountInfo fills born date, charter member and flags from the directory,
// or from the home grid for visitors.
func (s *Service) accountInfo(ctx context.Context, userID uuid.UUID) *models.AvatarProfile {
	if !s.directory.IsLocalUser(ctx, userID) {
		return s.visitorInfo(ctx, userID)
	}

	account, err := s.directory.Account(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID.String()).Msg("Account lookup failed")
		return &models.AvatarProfile{CharterMember: []byte{0}}
	}
	p := &models.AvatarProfile{Flags: uint32(account.Flags & 0xff)}
	if !account.Created.IsZero() {
		p.BornOn = account.Created.Format(bornOnLayout)
	}
	if account.Title == "" {
		p.CharterMember = []byte{byte((account.Flags & 0xf00) >> 8)}
	} else {
		p.CharterMember = []byte(account.Title)
	}
	return p
}

func (s *Service) visitorInfo(ctx context.Context, userID uuid.UUID) *models.AvatarProfile {
	homeURI := s.directory.UserServerURL(ctx, userID, contracts.ServerHome)
	if homeURI == "" {
		return &models.AvatarProfile{CharterMember: []byte(titleUnavailable), Foreign: true}
	}
	p := &models.AvatarProfile{CharterMember: []byte(titleVisitor), Foreign: true}
	if s.home == nil {
		return p
	}

	info, err := s.home.UserInfo(ctx, homeURI, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID.String()).Msg("Home grid user info unavailable")
		return p
	}
	p.Flags = uint32(info.Flags & 0xff)
	if info.Created > 0 {
		p.BornOn = time.Unix(info.Created, 0).UTC().Format(bornOnLayout)
	}
	return p
}

// UpdateAvatarProperties saves the editable profile fields and returns the
// profile as stored. Only the profile's owner may edit it.
func (s *Service) UpdateAvatarProperties(ctx context.Context, agentID uuid.UUID, u models.PropertiesUpdate) (*models.AvatarProfile, error) {
	const op, msg = "properties update", "Error updating properties"

	if u.UserID != agentID {
		return nil, fail(op, msg, ErrForbidden)
	}
	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return nil, fail(op, msg, err)
	}
	req := models.Properties{
		UserID:           agentID,
		WebURL:           u.WebURL,
		ImageID:          u.ImageID,
		AboutText:        u.AboutText,
		FirstLifeImageID: u.FirstLifeImageID,
		FirstLifeText:    u.FirstLifeText,
	}
	if _, err := exchange(ctx, s.rpc, ep.URI, MethodPropertiesUpdate, propertiesSchema, req); err != nil {
		return nil, fail(op, msg, err)
	}
	return s.AvatarProfile(ctx, agentID, agentID)
}

// UpdateInterests saves agentID's interests tab.
func (s *Service) UpdateInterests(ctx context.Context, agentID uuid.UUID, in models.Interests) error {
	const op, msg = "interests update", "Error updating interests"

	ep, err := s.endpoint(ctx, agentID)
	if err != nil {
		return fail(op, msg, err)
	}
	req := models.Properties{
		UserID:     agentID,
		WantToMask: int(in.WantToMask),
		WantToText: in.WantToText,
		SkillsMask: int(in.SkillsMask),
		SkillsText: in.SkillsText,
		Language:   in.Language,
	}
	if _, err := exchange(ctx, s.rpc, ep.URI, MethodInterestsUpdate, propertiesSchema, req); err != nil {
		return fail(op, msg, err)
	}
	return nil
}
