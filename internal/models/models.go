package models

import (
	"encoding/json"
	"strings"
)

// ============ ATTENDEE STRUCTURES ============

type Attendee struct {
	UUID              string             `json:"uuid"`
	FirstName         string             `json:"firstName"`
	LastName          string             `json:"lastName"`
	FullName          string             `json:"fullName,omitempty"`
	Email             string             `json:"email"`
	Company           string             `json:"company"`
	JobTitle          string             `json:"jobTitle"`
	Phone             string             `json:"phone"`
	GuestType         string             `json:"guestType"`
	CustomFieldValues []CustomFieldValue `json:"customFieldValues,omitempty"`
}

type CustomFieldValue struct {
	FieldID string `json:"fieldId"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Label   string `json:"label"`
}

type EventInfo struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

// DisplayName returns FullName, or first and last name joined.
func (a *Attendee) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func (a *Attendee) GetFieldByName(name string) string {
	nameLower := strings.ToLower(name)
	for _, cf := range a.CustomFieldValues {
		if strings.ToLower(cf.Name) == nameLower || strings.ToLower(cf.Label) == nameLower {
			return cf.Value
		}
	}
	return ""
}

// PlaceholderValues maps legacy placeholder names (without braces) to the
// values printed on a badge.
func PlaceholderValues(a *Attendee, e *EventInfo) map[string]string {
	values := make(map[string]string, 10+len(a.CustomFieldValues))
	for _, cf := range a.CustomFieldValues {
		if cf.Name != "" {
			values[cf.Name] = cf.Value
		}
	}
	values["fullName"] = a.DisplayName()
	values["email"] = a.Email
	values["company"] = a.Company
	values["jobTitle"] = a.JobTitle
	values["phone"] = a.Phone
	values["uuid"] = a.UUID
	values["guestType"] = a.GuestType
	if e != nil {
		values["eventName"] = e.Name
		values["eventDate"] = e.Date
		values["eventLocation"] = e.Location
	}
	return values
}

// ============ REQUEST/RESPONSE STRUCTURES ============

// GenerateBadgeRequest carries a template in either format.
type GenerateBadgeRequest struct {
	Template json.RawMessage `json:"template"`
	Attendee Attendee        `json:"attendee"`
	Event    *EventInfo      `json:"event,omitempty"`
	Canvas   *CanvasSize     `json:"canvasSize,omitempty"`
}

type BatchGenerateRequest struct {
	Template  json.RawMessage `json:"template"`
	Attendees []Attendee      `json:"attendees"`
	Event     *EventInfo      `json:"event,omitempty"`
	Canvas    *CanvasSize     `json:"canvasSize,omitempty"`
}

type BatchGenerateResponse struct {
	Success bool          `json:"success"`
	Total   int           `json:"total"`
	Results []BadgeResult `json:"results"`
}

type BadgeResult struct {
	UUID      string `json:"uuid"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	PDFBase64 string `json:"pdf_base64,omitempty"`
}

type FieldsRequest struct {
	Content string `json:"content"`
}

type SaveTemplateResponse struct {
	ID      uint   `json:"id"`
	Format  string `json:"format"`
	Version string `json:"version,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}
