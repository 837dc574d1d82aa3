package models

type EmailKind string

const (
	EmailVerification EmailKind = "verification"
)

// EmailJob is queued to redis by services and delivered by the worker pool.
type EmailJob struct {
	Kind  EmailKind `json:"kind"`
	To    string    `json:"to"`
	Token string    `json:"token"`
}
