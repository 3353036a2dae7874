package providers

import (
	"errors"
	"sitestats/internal/structures"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	v.StopOnError = false
	if !v.Validate() {
		return v.Errors
	}

	if cv.conf.Stats.Timezone != "" {
		if _, err := time.LoadLocation(cv.conf.Stats.Timezone); err != nil {
			return errors.New("stats.timezone: unknown location " + cv.conf.Stats.Timezone)
		}
	}
	if cv.conf.Persistence.Driver == "mongo" && cv.conf.Persistence.Mongo.URI == "" {
		return errors.New("persistence.mongo.uri is required for the mongo driver")
	}
	return nil
}
