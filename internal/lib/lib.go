// Package lib groups integrations that sit beside the request path:
// the Resend email client in lib/email and the asynq background worker
// in lib/job.
package lib
