package convert

import "strings"

// fieldTokens maps designer placeholders to the placeholders understood
// by the print pipeline. Order matters: replacements are applied in turn.
var fieldTokens = [][2]string{
	{"{attendee.name}", "{fullName}"},
	{"{attendee.email}", "{email}"},
	{"{attendee.company}", "{company}"},
	{"{attendee.jobtitle}", "{jobTitle}"},
	{"{attendee.phone}", "{phone}"},
	{"{attendee.uuid}", "{uuid}"},
	{"{event.name}", "{eventName}"},
	{"{event.date}", "{eventDate}"},
	{"{event.location}", "{eventLocation}"},
	{"{guest_type.name}", "{guestType}"},
}

// FieldTokens returns a copy of the designer -> print placeholder table.
func FieldTokens() [][2]string {
	out := make([][2]string, len(fieldTokens))
	copy(out, fieldTokens)
	return out
}

// DynamicFields rewrites every designer placeholder in content to its
// print form. Matching is exact and case-sensitive; unknown tokens are
// left alone.
func DynamicFields(content string) string {
	for _, pair := range fieldTokens {
		content = strings.ReplaceAll(content, pair[0], pair[1])
	}
	return content
}

// RestoreDynamicFields is the inverse of DynamicFields, used when a print
// template is reopened in the designer.
func RestoreDynamicFields(content string) string {
	for _, pair := range fieldTokens {
		content = strings.ReplaceAll(content, pair[1], pair[0])
	}
	return content
}
