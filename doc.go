// Package silt is the Composition Root for the silt client.
//
// It connects the core consistency logic (Domain Layer) with the remote
// store adapter (Transport Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Silt keeps a local in-memory view of a user's notes consistent with a
// remote document store. One authenticated session gates all data access;
// every mutation travels to the store first and the local collection only
// changes on a confirmed response. There are no optimistic writes, so a
// failure never leaves a phantom note behind.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from transport details.
//   - **Session State Machine**: Pending -> {Authenticated, Anonymous}, with every
//     identity transition flowing through a single serialized Session.
//   - **Confirmed-Write Cache**: Create/update/delete reconcile against the
//     authoritative remote response; rejected mutations are never visible.
//   - **Default Adapter (REST)**: Out-of-the-box client for an Appwrite-style
//     document store API.
//   - **Extensible**: Custom transports plug in via `core.AccountGateway` and
//     `core.NoteGateway`.
//
// Usage:
//
//	// Initialize service with functional options
//	svc, err := silt.New(silt.Config{
//		Endpoint:        "https://store.example.com/v1",
//		Project:         "notes-app",
//		Database:        "main",
//		NotesCollection: "notes",
//	}, silt.WithLogger(logger))
//
//	// Establish a session, then work with notes
//	err = svc.Login(ctx, "a@x.com", "secret")
//	note, err := svc.AddNote(ctx, "buy milk")
package silt
