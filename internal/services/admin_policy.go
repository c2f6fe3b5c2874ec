package services

import "strings"

// AdminPolicy decides admin capability from the configured email list.
// It is consulted once per request by the auth middleware.
type AdminPolicy struct {
	emails map[string]struct{}
}

func NewAdminPolicy(emails []string) AdminPolicy {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return AdminPolicy{emails: set}
}

func (p AdminPolicy) IsAdmin(email string) bool {
	if len(p.emails) == 0 {
		return false
	}
	_, ok := p.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
