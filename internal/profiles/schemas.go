package profiles

import (
	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/internal/marshal"
	"github.com/gridbridge/profilegw/pkg/models"
)

// Field names follow the remote profile service's record layout.

var classifiedSchema = marshal.NewSchema("classified",
	marshal.UUID("ClassifiedId", func(c *models.Classified) *uuid.UUID { return &c.ClassifiedID }),
	marshal.UUID("CreatorId", func(c *models.Classified) *uuid.UUID { return &c.CreatorID }),
	marshal.Int("CreationDate", func(c *models.Classified) *int { return &c.CreationDate }),
	marshal.Int("ExpirationDate", func(c *models.Classified) *int { return &c.ExpirationDate }),
	marshal.Int("Category", func(c *models.Classified) *int { return &c.Category }),
	marshal.String("Name", func(c *models.Classified) *string { return &c.Name }),
	marshal.String("Description", func(c *models.Classified) *string { return &c.Description }),
	marshal.UUID("ParcelId", func(c *models.Classified) *uuid.UUID { return &c.ParcelID }),
	marshal.Int("ParentEstate", func(c *models.Classified) *int { return &c.ParentEstate }),
	marshal.UUID("SnapshotId", func(c *models.Classified) *uuid.UUID { return &c.SnapshotID }),
	marshal.String("SimName", func(c *models.Classified) *string { return &c.SimName }),
	vectorField("GlobalPos", func(c *models.Classified) *models.Vector3 { return &c.GlobalPos }),
	marshal.String("ParcelName", func(c *models.Classified) *string { return &c.ParcelName }),
	marshal.Int("Flags", func(c *models.Classified) *uint8 { return &c.Flags }),
	marshal.Int("Price", func(c *models.Classified) *int { return &c.Price }),
)

var pickSchema = marshal.NewSchema("pick",
	marshal.UUID("PickId", func(p *models.Pick) *uuid.UUID { return &p.PickID }),
	marshal.UUID("CreatorId", func(p *models.Pick) *uuid.UUID { return &p.CreatorID }),
	marshal.Bool("TopPick", func(p *models.Pick) *bool { return &p.TopPick }),
	marshal.String("Name", func(p *models.Pick) *string { return &p.Name }),
	marshal.String("OriginalName", func(p *models.Pick) *string { return &p.OriginalName }),
	marshal.String("Desc", func(p *models.Pick) *string { return &p.Desc }),
	marshal.UUID("ParcelId", func(p *models.Pick) *uuid.UUID { return &p.ParcelID }),
	marshal.UUID("SnapshotId", func(p *models.Pick) *uuid.UUID { return &p.SnapshotID }),
	marshal.String("User", func(p *models.Pick) *string { return &p.User }),
	marshal.String("SimName", func(p *models.Pick) *string { return &p.SimName }),
	vectorField("GlobalPos", func(p *models.Pick) *models.Vector3 { return &p.GlobalPos }),
	marshal.Int("SortOrder", func(p *models.Pick) *int { return &p.SortOrder }),
	marshal.Bool("Enabled", func(p *models.Pick) *bool { return &p.Enabled }),
)

var notesSchema = marshal.NewSchema("notes",
	marshal.UUID("UserId", func(n *models.Notes) *uuid.UUID { return &n.UserID }),
	marshal.UUID("TargetId", func(n *models.Notes) *uuid.UUID { return &n.TargetID }),
	marshal.String("Notes", func(n *models.Notes) *string { return &n.Notes }),
)

var preferencesSchema = marshal.NewSchema("preferences",
	marshal.UUID("UserId", func(p *models.Preferences) *uuid.UUID { return &p.UserID }),
	marshal.Bool("IMViaEmail", func(p *models.Preferences) *bool { return &p.IMViaEmail }),
	marshal.Bool("Visible", func(p *models.Preferences) *bool { return &p.Visible }),
	marshal.String("EMail", func(p *models.Preferences) *string { return &p.Email }),
)

var propertiesSchema = marshal.NewSchema("properties",
	marshal.UUID("UserId", func(p *models.Properties) *uuid.UUID { return &p.UserID }),
	marshal.UUID("PartnerId", func(p *models.Properties) *uuid.UUID { return &p.PartnerID }),
	marshal.Bool("PublishProfile", func(p *models.Properties) *bool { return &p.PublishProfile }),
	marshal.Bool("PublishMature", func(p *models.Properties) *bool { return &p.PublishMature }),
	marshal.String("WebUrl", func(p *models.Properties) *string { return &p.WebURL }),
	marshal.Int("WantToMask", func(p *models.Properties) *int { return &p.WantToMask }),
	marshal.String("WantToText", func(p *models.Properties) *string { return &p.WantToText }),
	marshal.Int("SkillsMask", func(p *models.Properties) *int { return &p.SkillsMask }),
	marshal.String("SkillsText", func(p *models.Properties) *string { return &p.SkillsText }),
	marshal.String("Language", func(p *models.Properties) *string { return &p.Language }),
	marshal.UUID("ImageId", func(p *models.Properties) *uuid.UUID { return &p.ImageID }),
	marshal.String("AboutText", func(p *models.Properties) *string { return &p.AboutText }),
	marshal.UUID("FirstLifeImageId", func(p *models.Properties) *uuid.UUID { return &p.FirstLifeImageID }),
	marshal.String("FirstLifeText", func(p *models.Properties) *string { return &p.FirstLifeText }),
)

func vectorField[T any](name string, p func(*T) *models.Vector3) marshal.Field[T] {
	return marshal.Text(name, p, models.Vector3.String, models.ParseVector3)
}
