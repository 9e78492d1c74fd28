// Package pulse provides types, interfaces, and helpers for working with the
// Pulse HR and recruitment platform API.
//
// # Overview
//
// The pulse package defines the JSON:API document types, the query parameter
// model, the error taxonomy, and the interfaces of the resource clients
// (AccountsClient, TalentsClient, RecruitmentClient, ...). A concrete
// implementation is provided by the pulseclient package, which wires the
// credentials, the HTTP transport, and token authentication.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/pulse/pkg/pulse"
//	  "github.com/fivetwenty-io/pulse/pkg/pulseclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := pulseclient.New(&pulse.Config{
//	    APIURL: "https://acme.pulse.example",
//	    APIKey: "key",
//	    APISecret: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  talents, err := cli.Talents().List(ctx, pulse.NewQueryParams().WithPage(1, 50))
//	  if err != nil { log.Fatal(err) }
//	  _ = talents
//	}
//
// # Authentication
//
// A client logs in lazily: the first request posts the key and secret to the
// login endpoint and caches the returned token for the lifetime of that
// client. There is no refresh on 401 and tokens are never persisted.
//
// # Queries
//
// List endpoints accept QueryParams. BuildQueryParams converts the
// AdditionalFields bundle (sort, page number and size, filters, field
// selection) plus a list of included relationships into bracketed parameters
// such as page[number], filter[status][] and fields[talents][].
//
// # Errors
//
// A rejected login yields *AuthenticationError ("Authentication failed: ...").
// Any other non-2xx response yields *APIRequestError ("API request failed:
// ..."). Problems detected before a call is made wrap ErrUsage.
package pulse
