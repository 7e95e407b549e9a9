package schema

import (
	_ "embed"
	"sync"
)

//go:embed scene.schema.json
var sceneSchema []byte

var (
	sceneOnce      sync.Once
	sceneValidator *Validator
	sceneErr       error
)

// Scene returns the validator for scene files
func Scene() (*Validator, error) {
	sceneOnce.Do(func() {
		sceneValidator, sceneErr = NewValidator(sceneSchema)
	})
	return sceneValidator, sceneErr
}
