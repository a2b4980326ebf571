// Package invitationservice mirrors identity-provider invitations and
// consumes the provider's account lifecycle webhooks.
//
// The provider owns invitation delivery and acceptance UX; this module keeps
// the database mirror consistent (pending/accepted/revoked/expired) and turns
// user.created webhook events into tenant memberships.
package invitationservice
