// Package store persists users, roles, claims and documents through gorm.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrStaleStatus is returned when a claim's status changed between read and write.
var ErrStaleStatus = errors.New("claim status changed concurrently")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
