// Package simpleblog is a thin facade over a hosted backend platform
// (an Appwrite-compatible REST API) for a content-publishing application.
//
// It exposes two services:
//
//   - AuthService: account lifecycle (create, login, current user, logout).
//     Every platform failure is returned to the caller, wrapped in AuthError.
//   - ContentService: post documents and file storage. Every platform
//     failure is logged and converted into a failed Result or a false
//     boolean; no error is returned.
//
// Both failure policies are part of the public contract. The services are
// constructed once per process from an immutable Config and the platform
// handles in the platform/ subpackages.
//
// Example:
//
//	client, _ := appwrite.New(appwrite.Config{Endpoint: cfg.EndpointURL, ProjectID: cfg.ProjectID})
//	auth, _ := simpleblog.NewAuthService(client)
//	content, _ := simpleblog.NewContentService(cfg,
//	    simpleblog.WithDocumentStore(client),
//	    simpleblog.WithFileStore(client),
//	)
//	if res := content.GetPost(ctx); res.OK {
//	    fmt.Println(res.Value.Total)
//	}
package simpleblog
