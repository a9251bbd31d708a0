package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a company that orders are placed for.
type Client struct {
	DefaultModel
	Name     string `gorm:"uniqueIndex"`
	Email    string
	TaxID    string // National tax identifier, used for registry lookups
	Phone    string
	Contacts []Contact `gorm:"constraint:OnDelete:CASCADE"`
}

// Contact is a person working for a client.
type Contact struct {
	DefaultModel
	ClientID uuid.UUID
	Client   Client `json:"-"`
	Name     string
	Email    string
}

var ErrClientNameNotUnique = errors.New("a client with this name already exists")

func (c *Client) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.TaxID = strings.TrimSpace(c.TaxID)
	c.Phone = strings.TrimSpace(c.Phone)

	return nil
}

func (c *Contact) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)

	return nil
}

// SyncContacts reconciles the client's stored contacts with the submitted
// set: contacts without an ID are created, known ones are updated and
// stored contacts missing from the submission are deleted.
func (c *Client) SyncContacts(tx *gorm.DB, contacts []Contact) error {
	var existing []Contact
	err := tx.Where(&Contact{ClientID: c.ID}).Find(&existing).Error
	if err != nil {
		return err
	}

	submitted := make(map[uuid.UUID]bool, len(contacts))
	for _, contact := range contacts {
		if contact.ID != uuid.Nil {
			submitted[contact.ID] = true
		}
	}

	for _, contact := range existing {
		if !submitted[contact.ID] {
			err = tx.Delete(&contact).Error
			if err != nil {
				return err
			}
		}
	}

	for _, contact := range contacts {
		contact.ClientID = c.ID

		if contact.ID == uuid.Nil {
			err = tx.Create(&contact).Error
		} else {
			err = tx.Model(&Contact{DefaultModel: DefaultModel{ID: contact.ID}}).
				Select("Name", "Email").Updates(contact).Error
		}
		if err != nil {
			return err
		}
	}

	return nil
}
