package models

import (
	"github.com/praktis/backend/internal/domain/directory"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	OwnedAggregateModel
	Name            string               `gorm:"type:varchar(200);not null;index"`
	Code            string               `gorm:"type:varchar(50);index"`
	Type            directory.ClientType `gorm:"type:varchar(20)"`
	PAN             string               `gorm:"type:varchar(10);index"`
	GSTIN           string               `gorm:"type:varchar(15)"`
	Mobile          string               `gorm:"type:varchar(20);index"`
	AlternateMobile string               `gorm:"type:varchar(20)"`
	Email           string               `gorm:"type:varchar(200)"`
	Address         string               `gorm:"type:text"`
	Notes           string               `gorm:"type:text"`
	Active          bool                 `gorm:"not null;default:true;index"`
}

func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *directory.Client {
	return &directory.Client{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		Code:               m.Code,
		Type:               m.Type,
		PAN:                m.PAN,
		GSTIN:              m.GSTIN,
		Mobile:             m.Mobile,
		AlternateMobile:    m.AlternateMobile,
		Email:              m.Email,
		Address:            m.Address,
		Notes:              m.Notes,
		Active:             m.Active,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *directory.Client) {
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	m.Name = c.Name
	m.Code = c.Code
	m.Type = c.Type
	m.PAN = c.PAN
	m.GSTIN = c.GSTIN
	m.Mobile = c.Mobile
	m.AlternateMobile = c.AlternateMobile
	m.Email = c.Email
	m.Address = c.Address
	m.Notes = c.Notes
	m.Active = c.Active
}

// ClientModelFromDomain creates a new persistence model from a domain Client.
func ClientModelFromDomain(c *directory.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
