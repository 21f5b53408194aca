// Package session keeps the subject id that lets an interrupted onboarding
// resume.
package session

import (
	"context"
	"errors"
)

// ErrNoSession is returned by Load when no subject id is stored.
var ErrNoSession = errors.New("no stored session")

// Store holds exactly one subject id under a fixed key.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, subjectID string) error
	Clear(ctx context.Context) error
	Close() error
}
