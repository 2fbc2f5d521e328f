// Package logger wraps zap and carries a sugared logger through context.Context.
//
// Every service pulls its logger from the context, so a caller can name it
// (WithName), attach fields (WithKV), silence it (Mute) or redirect it into a
// buffer (CaptureContext) without touching process-wide state.
package logger
