package model

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"role"`
	StudentClass   *string   `json:"student_class"` // Set only for students
	CreatedAt      time.Time `json:"created_at"`
}

// IsStudent reports whether the access policy constrains this user.
func (u *User) IsStudent() bool {
	return u != nil && u.Role == RoleStudent
}
