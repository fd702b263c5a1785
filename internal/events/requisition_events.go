package events

import "solarforyou/pkg/constants"

// RequisitionCreatedEvent публикуется после коммита новой заявки на материалы.
type RequisitionCreatedEvent struct {
	RequisitionID uint64
	Number        string
	ActorID       uint64
}

func (e RequisitionCreatedEvent) Name() string { return constants.EventRequisitionCreated }

type HRRequisitionCreatedEvent struct {
	RequisitionID uint64
	Number        string
	ActorID       uint64
}

func (e HRRequisitionCreatedEvent) Name() string { return constants.EventHRRequisitionCreated }

type TransportRequestCreatedEvent struct {
	RequestID uint64
	Number    string
	ActorID   uint64
}

func (e TransportRequestCreatedEvent) Name() string { return constants.EventTransportRequestCreated }

// TransportStatusChangedEvent несёт прежний и новый статус.
type TransportStatusChangedEvent struct {
	RequestID uint64
	Number    string
	OldStatus string
	NewStatus string
	ActorID   uint64
}

func (e TransportStatusChangedEvent) Name() string { return constants.EventTransportStatusChanged }
