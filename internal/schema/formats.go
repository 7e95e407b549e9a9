// Package schema validates scene documents against JSON Schema with custom
// formats for senses and edge identifiers.
package schema

import (
	"regexp"
	"sync"

	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

var semanticID = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// senseFormatChecker accepts the names of the occlusion senses
type senseFormatChecker struct{}

func (senseFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}
	_, err := walls.ParseSense(s)
	return err == nil
}

// edgeIDFormatChecker accepts UUIDs and semantic IDs
type edgeIDFormatChecker struct{}

func (edgeIDFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok || s == "" {
		return false
	}
	if _, err := uuid.Parse(s); err == nil {
		return true
	}
	return semanticID.MatchString(s)
}

var registerOnce sync.Once

// RegisterCustomFormats registers the sense and edge_id formats. It is safe
// to call more than once.
func RegisterCustomFormats() {
	registerOnce.Do(func() {
		gojsonschema.FormatCheckers.Add("sense", senseFormatChecker{})
		gojsonschema.FormatCheckers.Add("edge_id", edgeIDFormatChecker{})
	})
}
