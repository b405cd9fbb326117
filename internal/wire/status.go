package wire

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/paywall/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts a service error into a gRPC status. Internal errors
// lose their message.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	kind := common.KindOf(err)
	msg := err.Error()

	var code codes.Code
	switch kind {
	case common.KindInvalidInput:
		code = codes.InvalidArgument
		if errors.Is(err, common.ErrAlreadyGranted) || errors.Is(err, common.ErrPaymentPending) {
			code = codes.FailedPrecondition
		}
	case common.KindUnavailable:
		code = codes.Unavailable
	case common.KindRejected:
		code = codes.FailedPrecondition
	case common.KindTimeout:
		code = codes.DeadlineExceeded
	case common.KindDecryption:
		code = codes.DataLoss
	case common.KindNotFound:
		code = codes.NotFound
	case common.KindUnauthorized:
		code = codes.Unauthenticated
	default:
		code = codes.Internal
		msg = common.ErrorInternal.Error()
	}
	return status.Error(code, msg)
}

// sentinels are matched against status messages, most specific first.
var sentinels = []error{
	common.ErrInvalidRecipient,
	common.ErrInvalidAmount,
	common.ErrNoIdentity,
	common.ErrAlreadyGranted,
	common.ErrPaymentPending,
	common.ErrorAlreadyExists,
	common.ErrInvalidInput,
	common.ErrPriceUnavailable,
	common.ErrCollectionNotFound,
	common.ErrUnavailable,
	common.ErrSubmissionRejected,
	common.ErrInsufficientFunds,
	common.ErrAuthorityMismatch,
	common.ErrConfirmationTimeout,
	common.ErrDecryption,
	common.ErrorNotFound,
	common.ErrTokenExpired,
	common.ErrInvalidToken,
	common.ErrorUnauthorized,
}

// FromStatus turns a gRPC error back into a wrapped sentinel so callers can
// keep using errors.Is.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	msg := st.Message()
	for _, s := range sentinels {
		if strings.HasPrefix(msg, s.Error()) {
			return fmt.Errorf("%w%s", s, strings.TrimPrefix(msg, s.Error()))
		}
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, msg)
	case codes.Unavailable:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, msg)
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", common.ErrSubmissionRejected, msg)
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, msg)
	case codes.DataLoss:
		return common.ErrDecryption
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.Unauthenticated:
		return common.ErrorUnauthorized
	default:
		return fmt.Errorf("%w: %s", common.ErrorInternal, msg)
	}
}
