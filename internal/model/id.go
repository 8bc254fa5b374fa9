package model

import (
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID indicates an identifier is not 24 hexadecimal characters.
var ErrInvalidID = errors.New("invalid id")

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a fresh 24-character hex identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s has the identifier shape.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}

// ParseID validates s and returns its canonical lowercase form.
func ParseID(s string) (string, error) {
	if !IsValidID(s) {
		return "", ErrInvalidID
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return "", ErrInvalidID
	}
	return oid.Hex(), nil
}
