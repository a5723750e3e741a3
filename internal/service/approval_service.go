package service

import (
	"context"

	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/repository"
	"github.com/Sachinsen7/grin/internal/websocket"
	"github.com/Sachinsen7/grin/pkg/apperror"

	"github.com/sirupsen/logrus"
)

// VerifyPartyRequest asks for one manager's signature to be set or cleared on
// every record of a party, in both collections. Either managerType or an
// explicit fieldName selects the column; fieldName wins when both are sent.
type VerifyPartyRequest struct {
	PartyName   string `json:"partyName"`
	ManagerType string `json:"managerType"`
	FieldName   string `json:"fieldName"`
	Status      string `json:"status"`
}

// VerifyPartyResult reports per-collection modified counts.
type VerifyPartyResult struct {
	Message      string `json:"message"`
	GsnUpdated   int64  `json:"gsnUpdated"`
	GrinUpdated  int64  `json:"grinUpdated"`
	TotalUpdated int64  `json:"totalUpdated"`
	PartyName    string `json:"partyName"`
}

// ApprovalService propagates manager signatures across both intake collections.
type ApprovalService interface {
	VerifyParty(ctx context.Context, req VerifyPartyRequest) (*VerifyPartyResult, error)
}

type approvalService struct {
	gsn  repository.GsnRepository
	grin repository.GrinRepository
	hub  *websocket.Hub
}

// NewApprovalService returns a new instance of ApprovalService.
func NewApprovalService(gsn repository.GsnRepository, grin repository.GrinRepository, hub *websocket.Hub) ApprovalService {
	return &approvalService{gsn: gsn, grin: grin, hub: hub}
}

// resolveSignatureColumn whitelists the target column. Raw field names from
// the client are never interpolated into SQL without passing through here.
func resolveSignatureColumn(req VerifyPartyRequest) (string, error) {
	if req.FieldName != "" {
		// The approval screens send the document field spelling
		// ("AccountManagerSigned"); snake_case and manager titles are also
		// accepted.
		if column, ok := model.SignatureFieldColumn(req.FieldName); ok {
			return column, nil
		}
		for _, column := range model.SignatureColumns() {
			if req.FieldName == column {
				return column, nil
			}
		}
		if column, ok := model.ManagerSignatureField(req.FieldName); ok && column != model.FieldIsHidden {
			return column, nil
		}
		return "", apperror.BadRequest("Invalid manager type")
	}

	column, ok := model.ManagerSignatureField(req.ManagerType)
	if !ok || column == model.FieldIsHidden {
		return "", apperror.BadRequest("Invalid manager type")
	}
	return column, nil
}

func (s *approvalService) VerifyParty(ctx context.Context, req VerifyPartyRequest) (*VerifyPartyResult, error) {
	if req.PartyName == "" {
		return nil, apperror.BadRequest("Party name is required")
	}

	column, err := resolveSignatureColumn(req)
	if err != nil {
		return nil, err
	}
	value := req.Status == "checked"

	// The two updates are deliberately not wrapped in one transaction: each
	// is a single atomic UPDATE, and partial propagation on a crash is a
	// known, manually reconciled condition for this workflow.
	gsnMatched, gsnModified, err := s.gsn.SetSignatureByParty(ctx, req.PartyName, column, value)
	if err != nil {
		return nil, err
	}
	grinMatched, grinModified, err := s.grin.SetSignatureByParty(ctx, req.PartyName, column, value)
	if err != nil {
		return nil, err
	}

	if gsnMatched+grinMatched == 0 {
		return nil, apperror.NotFound("No documents found for this party")
	}

	logrus.WithFields(logrus.Fields{
		"party":       req.PartyName,
		"field":       column,
		"gsnUpdated":  gsnModified,
		"grinUpdated": grinModified,
	}).Info("verification status updated")

	s.hub.BroadcastEvent(websocket.Event{
		Type:      "approval_update",
		PartyName: req.PartyName,
		Payload:   map[string]interface{}{"field": column, "value": value},
	})

	return &VerifyPartyResult{
		Message:      "Verification status updated successfully",
		GsnUpdated:   gsnModified,
		GrinUpdated:  grinModified,
		TotalUpdated: gsnModified + grinModified,
		PartyName:    req.PartyName,
	}, nil
}
