// Package appctx provides request-scoped values extraction.
package appctx

import (
	"context"
)

// Staff contains the authenticated staff member resolved from the session.
type Staff struct {
	// SubjectID is the identity provider's stable user id.
	SubjectID   string
	DisplayName string
	Email       string
	SessionID   string
}

type staffContextKey struct{}

// WithStaff adds Staff to context.
func WithStaff(ctx context.Context, staff *Staff) context.Context {
	return context.WithValue(ctx, staffContextKey{}, staff)
}

// GetStaff returns Staff from context, or nil for unauthenticated requests.
func GetStaff(ctx context.Context) *Staff {
	if v, ok := ctx.Value(staffContextKey{}).(*Staff); ok {
		return v
	}
	return nil
}

// GetStaffEmail returns the staff email from context or empty string.
func GetStaffEmail(ctx context.Context) string {
	if s := GetStaff(ctx); s != nil {
		return s.Email
	}
	return ""
}
