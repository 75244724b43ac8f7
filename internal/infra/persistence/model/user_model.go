package model

import (
	"time"

	"storefront/internal/domain/entity"
)

// PermissionsModel is the nested permissions object on back-office profiles.
type PermissionsModel struct {
	CanView        bool `firestore:"canView" json:"canView"`
	CanEdit        bool `firestore:"canEdit" json:"canEdit"`
	CanDelete      bool `firestore:"canDelete" json:"canDelete"`
	CanManageUsers bool `firestore:"canManageUsers" json:"canManageUsers"`
}

// UserModel is the users/{uid} document. Company fields sit flat on the
// document rather than under a nested object, so they are all optional here
// and only written for company profiles.
type UserModel struct {
	UID         string `firestore:"uid" json:"uid"`
	Email       string `firestore:"email" json:"email"`
	DisplayName string `firestore:"displayName" json:"displayName"`
	Role        string `firestore:"role" json:"role"`

	CompanyName               string `firestore:"companyName,omitempty" json:"companyName,omitempty"`
	CUI                       string `firestore:"cui,omitempty" json:"cui,omitempty"`
	RegistrationNumber        string `firestore:"registrationNumber,omitempty" json:"registrationNumber,omitempty"`
	SocialAddress             string `firestore:"socialAddress,omitempty" json:"socialAddress,omitempty"`
	DeliveryAddress           string `firestore:"deliveryAddress,omitempty" json:"deliveryAddress,omitempty"`
	ContactName               string `firestore:"contactName,omitempty" json:"contactName,omitempty"`
	ContactPosition           string `firestore:"contactPosition,omitempty" json:"contactPosition,omitempty"`
	PhoneNumber               string `firestore:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	IBAN                      string `firestore:"iban,omitempty" json:"iban,omitempty"`
	Bank                      string `firestore:"bank,omitempty" json:"bank,omitempty"`
	VATPayer                  bool   `firestore:"vatPayer,omitempty" json:"vatPayer,omitempty"`
	CollaborationType         string `firestore:"collaborationType,omitempty" json:"collaborationType,omitempty"`
	OtherCollaborationDetails string `firestore:"otherCollaborationDetails,omitempty" json:"otherCollaborationDetails,omitempty"`
	PreferredChannel          string `firestore:"preferredChannel,omitempty" json:"preferredChannel,omitempty"`
	PreferredLanguage         string `firestore:"preferredLanguage,omitempty" json:"preferredLanguage,omitempty"`
	TermsAccepted             bool   `firestore:"termsAccepted,omitempty" json:"termsAccepted,omitempty"`
	GDPRAccepted              bool   `firestore:"gdprAccepted,omitempty" json:"gdprAccepted,omitempty"`

	Permissions *PermissionsModel `firestore:"permissions,omitempty" json:"permissions,omitempty"`

	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp" json:"updatedAt"`
}

// UserFromEntity converts a domain profile for persistence.
func UserFromEntity(profile *entity.UserProfile) *UserModel {
	m := &UserModel{
		UID:         profile.UID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Role:        profile.Role.String(),
	}

	if company := profile.Company; company != nil {
		m.CompanyName = company.CompanyName
		m.CUI = company.CUI
		m.RegistrationNumber = company.RegistrationNumber
		m.SocialAddress = company.SocialAddress
		m.DeliveryAddress = company.DeliveryAddress
		m.ContactName = company.ContactName
		m.ContactPosition = company.ContactPosition
		m.PhoneNumber = company.PhoneNumber
		m.IBAN = company.IBAN
		m.Bank = company.Bank
		m.VATPayer = company.VATPayer
		m.CollaborationType = company.CollaborationType
		m.OtherCollaborationDetails = company.OtherCollaborationDetails
		m.PreferredChannel = company.PreferredChannel
		m.PreferredLanguage = company.PreferredLanguage
		m.TermsAccepted = company.TermsAccepted
		m.GDPRAccepted = company.GDPRAccepted
	}

	if perms := profile.Permissions; perms != nil {
		m.Permissions = &PermissionsModel{
			CanView:        perms.CanView,
			CanEdit:        perms.CanEdit,
			CanDelete:      perms.CanDelete,
			CanManageUsers: perms.CanManageUsers,
		}
	}

	return m
}

// ToEntity converts a stored profile back into the domain shape.
func (m *UserModel) ToEntity() *entity.UserProfile {
	profile := &entity.UserProfile{
		UID:         m.UID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        entity.Role(m.Role),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	switch profile.Role {
	case entity.RoleCompany:
		profile.Company = &entity.CompanyProfile{
			CompanyName:               m.CompanyName,
			CUI:                       m.CUI,
			RegistrationNumber:        m.RegistrationNumber,
			SocialAddress:             m.SocialAddress,
			DeliveryAddress:           m.DeliveryAddress,
			ContactName:               m.ContactName,
			ContactPosition:           m.ContactPosition,
			PhoneNumber:               m.PhoneNumber,
			IBAN:                      m.IBAN,
			Bank:                      m.Bank,
			VATPayer:                  m.VATPayer,
			CollaborationType:         m.CollaborationType,
			OtherCollaborationDetails: m.OtherCollaborationDetails,
			PreferredChannel:          m.PreferredChannel,
			PreferredLanguage:         m.PreferredLanguage,
			TermsAccepted:             m.TermsAccepted,
			GDPRAccepted:              m.GDPRAccepted,
		}
	case entity.RoleAdmin:
		if m.Permissions != nil {
			profile.Permissions = &entity.AdminPermissions{
				CanView:        m.Permissions.CanView,
				CanEdit:        m.Permissions.CanEdit,
				CanDelete:      m.Permissions.CanDelete,
				CanManageUsers: m.Permissions.CanManageUsers,
			}
		}
	}

	return profile
}
