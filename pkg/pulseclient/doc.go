// Package pulseclient provides the primary entry point for constructing a
// Pulse API client that implements the pulse.Client interface.
//
// It wires configuration, the HTTP transport and the login token manager on
// top of the interfaces and types defined in the pulse package. Most
// applications import pulseclient to build a client, then use the returned
// pulse.Client to reach the resource clients: Talents(), Recruitment(),
// Workflow(), and so on.
//
// Quick start
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
//
//	  cli, err := pulseclient.New(&pulse.Config{
//	    APIURL:    "https://acme.pulse.example",
//	    APIKey:    "key",
//	    APISecret: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  talents, err := cli.Talents().List(ctx, pulse.BuildQueryParams(pulse.AdditionalFields{
//	    Sort: "-createdAt",
//	  }, nil))
//	  if err != nil { log.Fatal(err) }
//	  _ = talents
//	}
//
// Selecting a client by tag
//
// NewResourceClient returns the client for a resource tag such as
// pulse.ResourceTalent. Unknown tags yield the generic base client, which
// still offers Request, RequestJSON and RequestBinary for endpoints without a
// dedicated client.
package pulseclient
