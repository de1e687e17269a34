// Package apiclient is the HTTP client for the campo listings REST API.
//
// A [Client] joins request paths onto the configured API origin, attaches
// the admin bearer token from an injected session.Store, encodes JSON or
// multipart bodies and routes every response through a [Handler]:
//
//	c := apiclient.New("https://api.example.cl", session.NewFileStore(path))
//	var page models.PropertyPage
//	err := c.Get(ctx, "/properties", &page,
//		apiclient.WithoutAuth(),
//		apiclient.WithQuery(apiclient.NewQuery().Set("region", []string{"Maule", "Ñuble"})),
//	)
//
// Failures are always *[Error] values tagged with a [Kind]. A 401 clears the
// token store and notifies every [AuthExpiredFunc] registered with
// [Client.OnAuthExpired]; [NewLoginRedirector] turns that notification into
// a navigation to the admin login route.
//
// Requests are cancelled through their context. [Abortable] pairs a context
// with an Abort function and [IsCanceled] tells a deliberate abort apart from
// a real failure. There are no retries and no default timeout.
package apiclient
