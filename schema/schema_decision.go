package schema

import "time"

// MatchProperty is one grouped agent match for a license.
type MatchProperty struct {
	LicenseID  int64
	License    LicenseRef
	Agent      AgentRef
	MatchID    int64
	Percentage *int
}

// AgentDetections groups matches by agent name, then agent run id, then license short name.
type AgentDetections map[string]map[int64]map[string][]MatchProperty

// LatestDetections groups matches of the latest agent runs by license short name, then agent name.
type LatestDetections map[string]map[string][]MatchProperty

// Add appends a match under agent name, run id and license short name.
func (d AgentDetections) Add(p MatchProperty) {
	runs, ok := d[p.Agent.AgentName]
	if !ok {
		runs = make(map[int64]map[string][]MatchProperty)
		d[p.Agent.AgentName] = runs
	}
	licenses, ok := runs[p.Agent.AgentID]
	if !ok {
		licenses = make(map[string][]MatchProperty)
		runs[p.Agent.AgentID] = licenses
	}
	licenses[p.License.ShortName] = append(licenses[p.License.ShortName], p)
}

// AgentNames returns every agent name that produced at least one match.
func (d AgentDetections) AgentNames() []string {
	return SortedKeys(d)
}

// LicenseDecisionEvent is a recorded add or remove decision for a license on a tree item.
type LicenseDecisionEvent struct {
	EventID    int64      `json:"event_id"`
	ItemID     int64      `json:"item_id"`
	UserID     int64      `json:"user_id"`
	License    LicenseRef `json:"license"`
	EventType  EventType  `json:"event_type"`
	DateTime   time.Time  `json:"date_time"`
	IsGlobal   bool       `json:"is_global"`
	IsRemoved  bool       `json:"is_removed"`
	ReportInfo string     `json:"report_info,omitempty"`
	Comment    string     `json:"comment,omitempty"`
}

// LicenseShortName returns the short name of the event's license.
func (e LicenseDecisionEvent) LicenseShortName() string {
	return e.License.ShortName
}

// LicenseDecisionEventBuilder assembles events with defaults for unset fields.
type LicenseDecisionEventBuilder struct {
	event LicenseDecisionEvent
}

// NewLicenseDecisionEventBuilder returns a builder for a global user event at the current time.
func NewLicenseDecisionEventBuilder() *LicenseDecisionEventBuilder {
	return &LicenseDecisionEventBuilder{
		event: LicenseDecisionEvent{
			EventType: UserEvent,
			DateTime:  time.Now(),
			IsGlobal:  true,
		},
	}
}

// SetLicenseRef sets the license the event refers to.
func (b *LicenseDecisionEventBuilder) SetLicenseRef(ref LicenseRef) *LicenseDecisionEventBuilder {
	b.event.License = ref
	return b
}

// SetItemID sets the tree item.
func (b *LicenseDecisionEventBuilder) SetItemID(itemID int64) *LicenseDecisionEventBuilder {
	b.event.ItemID = itemID
	return b
}

// SetUserID sets the acting user.
func (b *LicenseDecisionEventBuilder) SetUserID(userID int64) *LicenseDecisionEventBuilder {
	b.event.UserID = userID
	return b
}

// SetDateTime sets the event timestamp.
func (b *LicenseDecisionEventBuilder) SetDateTime(t time.Time) *LicenseDecisionEventBuilder {
	b.event.DateTime = t
	return b
}

// SetGlobal sets the globality flag.
func (b *LicenseDecisionEventBuilder) SetGlobal(global bool) *LicenseDecisionEventBuilder {
	b.event.IsGlobal = global
	return b
}

// SetRemoved marks the event as a removal.
func (b *LicenseDecisionEventBuilder) SetRemoved(removed bool) *LicenseDecisionEventBuilder {
	b.event.IsRemoved = removed
	return b
}

// Build returns the assembled event.
func (b *LicenseDecisionEventBuilder) Build() LicenseDecisionEvent {
	return b.event
}

// AgentLicenseDecisionEvent is a license decision implied by one agent match.
type AgentLicenseDecisionEvent struct {
	License    LicenseRef `json:"license"`
	Agent      AgentRef   `json:"agent"`
	MatchID    int64      `json:"match_id"`
	Percentage *int       `json:"percentage,omitempty"`
}

// LicenseDecisionResult pairs an optional human decision with the agent findings for one license.
type LicenseDecisionResult struct {
	Event       *LicenseDecisionEvent       `json:"event,omitempty"`
	AgentEvents []AgentLicenseDecisionEvent `json:"agent_events,omitempty"`
}

// HasLicenseDecisionEvent reports whether a person decided on the license.
func (r LicenseDecisionResult) HasLicenseDecisionEvent() bool {
	return r.Event != nil
}

// HasAgentDecisionEvents reports whether any agent detected the license.
func (r LicenseDecisionResult) HasAgentDecisionEvents() bool {
	return len(r.AgentEvents) > 0
}

// LicenseRef returns the license of the human event, or of the first agent event.
func (r LicenseDecisionResult) LicenseRef() LicenseRef {
	if r.Event != nil {
		return r.Event.License
	}
	if len(r.AgentEvents) > 0 {
		return r.AgentEvents[0].License
	}
	return LicenseRef{}
}

// LicenseID returns the id of LicenseRef.
func (r LicenseDecisionResult) LicenseID() int64 {
	return r.LicenseRef().ID
}

// IsGlobal returns the globality of the human event, defaulting to global.
func (r LicenseDecisionResult) IsGlobal() bool {
	if r.Event != nil {
		return r.Event.IsGlobal
	}
	return true
}

// ClearingDecision is a persisted snapshot of the decisions for a tree item.
type ClearingDecision struct {
	DecisionID int64        `json:"decision_id"`
	ItemID     int64        `json:"item_id"`
	UserID     int64        `json:"user_id"`
	Type       DecisionType `json:"type"`
	IsGlobal   bool         `json:"is_global"`
	DateAdded  time.Time    `json:"date_added"`
	Added      []LicenseRef `json:"added"`
	Removed    []LicenseRef `json:"removed"`
}

// DecisionOutcome reports what a snapshot attempt did.
type DecisionOutcome struct {
	ItemID   int64        `json:"item_id"`
	UserID   int64        `json:"user_id"`
	Type     DecisionType `json:"type"`
	IsGlobal bool         `json:"is_global"`
	Inserted bool         `json:"inserted"`
	Added    []string     `json:"added"`
	Removed  []string     `json:"removed"`
}
