// Package flowstate tracks the CSRF state minted for each begun OAuth2
// authorization. States are short-lived and single use: the auth service
// deletes one on its first lookup.
package flowstate

import "time"

type FlowState struct {
	CreatedAt time.Time
}

type Repo interface {
	Upsert(state string, flowState *FlowState) error
	Get(state string) (*FlowState, error)
	Delete(state string) error
}
