// Package notify sends completion emails to submitters through the Brevo
// transactional email API. Notification failures are advisory: callers log
// them and move on, they never change a submission's outcome.
package notify
