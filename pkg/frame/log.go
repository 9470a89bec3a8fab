package frame

import (
	"go.uber.org/zap"
)

func (f *Frame) zapID() zap.Field {
	return zap.String("frame_id", f.id.String())
}

func (f *Frame) zapChild(child *Frame) zap.Field {
	return zap.String("derived_frame_id", child.id.String())
}

func (f *Frame) zapRows(n int) zap.Field {
	return zap.Int("rows", n)
}
