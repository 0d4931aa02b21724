// Package zerror defines domain errors that carry a transport independent
// status and a stable machine readable code.
package zerror

import "fmt"

// ZError is a domain error. Values are usually declared once as package
// variables and then decorated per call with WrapParent or WithMsg.
type ZError struct {
	parent error
	status Status
	code   string
	msg    string
}

func NewZError(parent error, status Status, code, msg string) ZError {
	return ZError{parent: parent, status: status, code: code, msg: msg}
}

func NewBadRequest(code, msg string) ZError {
	return NewZError(nil, StatusBadRequest, code, msg)
}

func NewNotFound(code, msg string) ZError {
	return NewZError(nil, StatusNotFound, code, msg)
}

func NewUnprocessableEntity(code, msg string) ZError {
	return NewZError(nil, StatusUnprocessableEntity, code, msg)
}

func (e ZError) Error() string {
	if e.parent == nil {
		return fmt.Sprintf("Code=%s, Msg=%s", e.code, e.msg)
	}
	return fmt.Sprintf("Code=%s, Msg=%s, Parent=(%v)", e.code, e.msg, e.parent)
}

// WrapParent returns a copy of e caused by parent. A nil parent leaves e unchanged.
func (e ZError) WrapParent(parent error) ZError {
	if parent != nil {
		e.parent = parent
	}
	return e
}

// WithMsg returns a copy of e carrying msg. The copy still matches e with errors.Is.
func (e ZError) WithMsg(msg string) ZError {
	e.msg = msg
	return e
}

func (e ZError) Unwrap() error {
	return e.parent
}

// Is matches on status and code only, so decorated copies still match the
// declared error.
func (e ZError) Is(target error) bool {
	t, ok := target.(ZError)
	return ok && e.status == t.status && e.code == t.code
}

func (e ZError) Status() Status { return e.status }
func (e ZError) Code() string   { return e.code }
func (e ZError) Msg() string    { return e.msg }
func (e ZError) Parent() error  { return e.parent }
