package util

import (
	"errors"
	"fmt"
)

// 领域错误分三类：NotFound / PermissionDenied / Validation。
// controller 层通过 errors.Is 把它们映射为 HTTP 状态码。
var (
	ErrNotFound         = errors.New("resource not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation error")
)

var (
	ErrCourseNotFound       = fmt.Errorf("%w: course not found", ErrNotFound)
	ErrLessonNotFound       = fmt.Errorf("%w: lesson not found", ErrNotFound)
	ErrPrerequisiteNotFound = fmt.Errorf("%w: prerequisite lesson not found", ErrNotFound)
	ErrParentNotFound       = fmt.Errorf("%w: module lesson not found", ErrNotFound)
	ErrPaymentNotFound      = fmt.Errorf("%w: payment not found", ErrNotFound)
	ErrWorkNotFound         = fmt.Errorf("%w: work not found", ErrNotFound)
	ErrAnswerNotFound       = fmt.Errorf("%w: answer not found", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("%w: user not found", ErrNotFound)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrPermissionDenied)
	ErrNotCourseOwner     = fmt.Errorf("%w: you are not the instructor of this course", ErrPermissionDenied)
	ErrNotEnrolled        = fmt.Errorf("%w: you did not enroll in this course", ErrPermissionDenied)
	ErrLessonLocked       = fmt.Errorf("%w: prerequisite lesson not completed", ErrPermissionDenied)

	ErrNegativePrice        = fmt.Errorf("%w: course price cannot be negative", ErrValidation)
	ErrDuplicateTitle       = fmt.Errorf("%w: course with this title already exists", ErrValidation)
	ErrAmountMismatch       = fmt.Errorf("%w: payment amount does not match course price", ErrValidation)
	ErrAlreadyPaid          = fmt.Errorf("%w: payment for this course has already been made", ErrValidation)
	ErrUnknownPaymentType   = fmt.Errorf("%w: unsupported payment type", ErrValidation)
	ErrParentNotModule      = fmt.Errorf("%w: parent lesson must be a module", ErrValidation)
	ErrPrerequisiteIsParent = fmt.Errorf("%w: prerequisite and parent cannot be the same lesson", ErrValidation)
	ErrPrerequisiteCourse   = fmt.Errorf("%w: prerequisite lesson must belong to the same course", ErrValidation)
	ErrLessonHasDependants  = fmt.Errorf("%w: cannot delete a lesson other lessons depend on", ErrValidation)
	ErrCloneNotModule       = fmt.Errorf("%w: only module lessons can be cloned", ErrValidation)
	ErrEmailRegistered      = fmt.Errorf("%w: email already registered", ErrValidation)
)
