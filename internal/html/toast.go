package html

import (
	"html/template"
	"io"
)

type ToastKind string

const ToastError ToastKind = "error"

// Toast is a notification appended to the #toasts region of any page. It is
// always rendered out of band so it can ride along with other responses.
type Toast struct {
	Kind        ToastKind
	Title       template.HTML
	Description template.HTML
}

func ErrorToast(title, description template.HTML) Toast {
	return Toast{Kind: ToastError, Title: title, Description: description}
}

func (t Toast) Render(w io.Writer) error {
	return execute(w, "toast", t)
}
