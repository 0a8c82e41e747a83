// Package models defines the wire types exchanged with the NayiDisha backend:
// issues (complaints), users, profiles and the paginated envelope.
package models
