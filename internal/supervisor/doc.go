// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

/*
Package supervisor runs Ning's long-lived services under a suture v4 tree.

	root ("ning")
	├── data-layer
	│   └── StoreGCService (Badger backend only)
	└── api-layer
	    └── HTTPServerService

Each layer restarts its own children with exponential backoff, so a failing
maintenance task in the data layer does not take the HTTP server down.
Supervisor events are logged through sutureslog into the zerolog pipeline
(see logging.NewSlogLogger).

Usage:

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
