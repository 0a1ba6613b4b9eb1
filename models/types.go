// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Conflict codes returned with 409 responses so the client can render a
// specific message.
const (
	CodeDuplicateName = "DUPLICATE_NAME"
	CodeNameInUse     = "NAME_IN_USE"
)

// Request types

type StartSessionRequest struct {
	ParticipantName string `json:"participantName"`
}

// ItemIndex is a pointer so a missing field can be told apart from item 0.
type RecordResponseRequest struct {
	ItemIndex *int            `json:"itemIndex"`
	Responses json.RawMessage `json:"responses"`
}

type SubmitSessionRequest struct {
	UserResponses  map[string]json.RawMessage `json:"userResponses"`
	CompletionTime string                     `json:"completionTime"`
	TotalItems     int                        `json:"totalItems"`
	SessionSummary json.RawMessage            `json:"sessionSummary"`
}

// Response types

type StartSessionResponse struct {
	SessionID  string `json:"sessionId"`
	TotalItems int    `json:"totalItems"`
	Message    string `json:"message"`
}

type SessionDataResponse struct {
	Data            []Item       `json:"data"`
	TotalItems      int          `json:"totalItems"`
	ParticipantName string       `json:"participantName"`
	NoteOrder       map[int]bool `json:"noteOrder"` // item index -> note A shown first
}

type AckResponse struct {
	Message string `json:"message"`
}

type SubmitSessionResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

type StatsResponse struct {
	ActiveSessions            int         `json:"activeSessions"`
	TotalDataItems            int         `json:"totalDataItems"`
	ItemsPerUser              int         `json:"itemsPerUser"`
	TotalAssignments          int         `json:"totalAssignments"`
	AverageAssignmentsPerItem float64     `json:"averageAssignmentsPerItem"`
	MinAssignmentsPerItem     int         `json:"minAssignmentsPerItem"`
	MaxAssignmentsPerItem     int         `json:"maxAssignmentsPerItem"`
	AssignmentBalance         int         `json:"assignmentBalance"`
	UsedParticipantNames      []string    `json:"usedParticipantNames"`
	TotalCompletedSessions    int         `json:"totalCompletedSessions"`
	Uptime                    float64     `json:"uptime"`
	AssignmentStats           map[int]int `json:"assignmentStats"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Domain types

// Item is one evaluatable unit: a social-media post paired with a community
// note and an LLM note. Items arrive as arbitrary JSON objects carrying a
// stable integer index; all other fields pass through load -> serve
// untouched, so the dataset schema can grow without server changes.
type Item struct {
	Index int

	raw json.RawMessage
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var head struct {
		Index *int `json:"index"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	if head.Index == nil {
		return errors.New("item missing index field")
	}
	it.Index = *head.Index
	it.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	if it.raw == nil {
		return json.Marshal(struct {
			Index int `json:"index"`
		}{it.Index})
	}
	return it.raw, nil
}

// ResponseRecord captures one incremental per-item rating. The payload is
// whatever rating/ordering bookkeeping the client reports; the server stores
// it opaquely, keyed by the item's original index.
type ResponseRecord struct {
	ItemIndex     int             `json:"itemIndex"`
	OriginalIndex int             `json:"originalIndex"`
	Timestamp     time.Time       `json:"timestamp"`
	Responses     json.RawMessage `json:"responses"`
}

// Submission is the final durable record for one completed session. The
// assigned item data is deliberately excluded so stored records never
// redistribute source content.
type Submission struct {
	ParticipantName    string                     `json:"participantName"`
	SessionID          string                     `json:"sessionId"`
	StartTime          time.Time                  `json:"startTime"`
	CompletionTime     string                     `json:"completionTime"`
	TotalItemsAssigned int                        `json:"totalItemsAssigned"`
	SessionSummary     json.RawMessage            `json:"sessionSummary"`
	UserResponses      map[string]json.RawMessage `json:"userResponses"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
