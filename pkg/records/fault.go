package records

import (
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

const (
	opGetClient     = "get_client"
	opInsert        = "insert"
	opListPage      = "list_page"
	opGetByID       = "get_by_id"
	opUpdate        = "update"
	opDelete        = "delete"
	opCreateAccount = "create_account"
	opSignIn        = "sign_in"
)

// Fault tiers as they appear in the "tier" log field.
const (
	TierUnconfigured   = "unconfigured"
	TierOperationFault = "operation_fault"
)

var opDescriptions = map[string]string{
	opInsert:        "inserting contact",
	opListPage:      "getting contacts",
	opGetByID:       "getting contact",
	opUpdate:        "updating contact",
	opDelete:        "deleting contact",
	opCreateAccount: "creating user",
	opSignIn:        "signing in user",
}

func (s *Service) unconfigured(op string) {
	s.logger.Warn("Backend client not initialized",
		zap.String("op", op),
		zap.String("tier", TierUnconfigured),
	)
}

// fault is the single boundary where backend errors stop. The concrete error
// type is reduced to its code before logging; callers only see the sentinel.
func (s *Service) fault(op string, err error) {
	code := errors.GetErrorCode(err)
	s.logger.Error("Error "+opDescriptions[op],
		zap.String("op", op),
		zap.String("tier", TierOperationFault),
		zap.String("code", code),
		zap.String("category", string(errors.GetCategory(code))),
		zap.Bool("transient", errors.ShouldRetry(err)),
		zap.Error(err),
	)
}
