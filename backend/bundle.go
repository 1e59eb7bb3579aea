package backend

import (
	"context"

	"git.sr.ht/~gioverse/skel/stream"
)

type WindowState struct {
	Bundle
	Controller *stream.Controller
}

// NewWindowState binds bundle to a window. invalidate must request a new
// frame for that window.
func NewWindowState(ctx context.Context, bundle Bundle, invalidate func()) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, invalidate),
	}
}

type Bundle struct {
	Datasource *Datasource
	API        *API
}

func NewBundle(datasource *Datasource, api *API) Bundle {
	return Bundle{
		Datasource: datasource,
		API:        api,
	}
}
