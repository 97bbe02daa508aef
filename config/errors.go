package config

import (
	"errors"

	"github.com/ava12/sublex"
)

// Error codes returned by configuration functions:
const (
	// configuration file cannot be read
	ReadError = sublex.ConfigErrors + iota
	// file name extension is neither .toml nor .yaml/.yml
	UnknownFormatError
	// configuration text cannot be decoded
	DecodeError
	// a parameter is out of range
	InvalidValueError
)

func makeReadError(name string, err error) *sublex.Error {
	return sublex.FormatError(ReadError, "cannot read config file %s: %s", name, err.Error())
}

func makeUnknownFormatError(name string) *sublex.Error {
	return sublex.FormatError(UnknownFormatError, "unknown config format of %s, expecting .toml, .yaml, or .yml file", name)
}

func makeDecodeError(name string, err error) *sublex.Error {
	return sublex.FormatError(DecodeError, "cannot decode config %s: %s", name, err.Error())
}

func makeInvalidValueError(name, param string, value int) *sublex.Error {
	return sublex.FormatError(InvalidValueError, "invalid %s value %d in config %s", param, value, name)
}

// makeDefinitionError keeps the code of a table or directive error and adds definition location.
func makeDefinitionError(name, where string, err error) *sublex.Error {
	var e *sublex.Error
	if errors.As(err, &e) {
		return sublex.FormatError(e.Code, "%s: %s: %s", name, where, e.Message)
	}
	return sublex.FormatError(InvalidValueError, "%s: %s: %s", name, where, err.Error())
}
