package binarycodec

import (
	"fmt"

	"github.com/RitoShark/ritobin-go/bperr"
	"github.com/RitoShark/ritobin-go/model"
)

func invalidValuef(t model.Type, format string, args ...any) error {
	return bperr.NewInvalidValue(byte(t), fmt.Sprintf(format, args...))
}

func unknownType(t model.Type) error {
	return bperr.NewUnknownType(byte(t))
}
