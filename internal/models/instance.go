package models

import "strings"

// PowerState is the coarse lifecycle state the power controller branches on
type PowerState string

const (
	PowerStateRunning PowerState = "running"
	PowerStateStopped PowerState = "stopped"
	PowerStateOther   PowerState = "other"
)

// ParsePowerState maps a provider state name onto a PowerState
func ParsePowerState(name string) PowerState {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "running":
		return PowerStateRunning
	case "stopped":
		return PowerStateStopped
	default:
		return PowerStateOther
	}
}

// InstanceStateSnapshot is the state of one instance as observed during a
// single invocation
type InstanceStateSnapshot struct {
	InstanceID string     `json:"instance_id"`
	PowerState PowerState `json:"power_state"`
	RawState   string     `json:"raw_state"`
}

// NotificationMessage is a fire-and-forget message for an SNS topic
type NotificationMessage struct {
	TopicArn string `json:"topic_arn"`
	Body     string `json:"body"`
}

// PowerAction is what the controller does for a matched instance
type PowerAction string

const (
	PowerActionStart                  PowerAction = "start"
	PowerActionNotifyAlreadyRunning   PowerAction = "notify_already_running"
	PowerActionNotifyUnspecifiedState PowerAction = "notify_unspecified_state"
)

// Notification bodies published by the power controller
const (
	MessageAlreadyRunning   = "The nPrice core EC2 Instance is already running and was for some reason not shut down by the scripts, you might want to check it out."
	MessageUnspecifiedState = "nPrice Core Instance is in an unspecified state (not started or stopped), check it out."
)

// DecidePowerAction implements the running/stopped/other branch
func DecidePowerAction(state PowerState) PowerAction {
	switch state {
	case PowerStateRunning:
		return PowerActionNotifyAlreadyRunning
	case PowerStateStopped:
		return PowerActionStart
	default:
		return PowerActionNotifyUnspecifiedState
	}
}

// NotificationFor returns the message to publish for an action, and false for
// actions that publish nothing
func NotificationFor(action PowerAction, topicArn string) (NotificationMessage, bool) {
	switch action {
	case PowerActionNotifyAlreadyRunning:
		return NotificationMessage{TopicArn: topicArn, Body: MessageAlreadyRunning}, true
	case PowerActionNotifyUnspecifiedState:
		return NotificationMessage{TopicArn: topicArn, Body: MessageUnspecifiedState}, true
	default:
		return NotificationMessage{}, false
	}
}

// ContainsInstanceID reports whether id is one of the targeted instances
func ContainsInstanceID(targets []string, id string) bool {
	for _, t := range targets {
		if t == id {
			return true
		}
	}
	return false
}
