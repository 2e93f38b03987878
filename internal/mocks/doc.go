// Package mocks provides shared mock implementations for tests.
//
// Repository mocks embed testify's mock.Mock and are configured with On/Return.
// MockJWTService uses function fields instead, with fixed fallback values for
// the simple cases:
//
//	tokens := &mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken}
package mocks
