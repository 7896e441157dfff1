package service

import (
	"fmt"
	"k12_reviser_v2/internal/common"
	"k12_reviser_v2/internal/domain/model"
)

// CheckClassAccess is the single class-scope predicate applied to every
// class-filtered read (subject listing, topic listing, question listing).
// Anonymous callers, non-students and unscoped requests pass; a student
// passes only for their own enrolled class.
func CheckClassAccess(caller *model.User, requestedClass string) error {
	if caller == nil || caller.Role != model.RoleStudent || requestedClass == "" {
		return nil
	}
	if caller.StudentClass != nil && *caller.StudentClass == requestedClass {
		return nil
	}
	return fmt.Errorf("class-scope mismatch: you can only access content for your enrolled class: %w", common.ErrForbidden)
}
