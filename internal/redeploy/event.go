package redeploy

import "strings"

// Image actions a registry may report. Only pushes trigger a redeployment.
const (
	ActionPush = "PUSH"
)

// Event is the notification envelope delivered by the image registry watch
// whenever something happens to an image in a watched repository. Only the
// action type and repository name are ever consumed; everything else rides
// along for observability.
type Event struct {
	Source     string      `json:"source"`
	DetailType string      `json:"detail-type"`
	Detail     EventDetail `json:"detail"`
}

// EventDetail carries the registry's description of the image action.
type EventDetail struct {
	ActionType     string `json:"action-type"`
	RepositoryName string `json:"repository-name"`
	ImageTag       string `json:"image-tag,omitempty"`
	ImageDigest    string `json:"image-digest,omitempty"`
	Result         string `json:"result,omitempty"`
}

// IsPush returns true if the event signifies an image push.
func (e Event) IsPush() bool {
	return strings.EqualFold(e.Detail.ActionType, ActionPush)
}
