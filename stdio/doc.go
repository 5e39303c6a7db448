// Package stdio implements a single-connection MCP transport over
// stdin/stdout. Each line on the reader is one JSON-RPC message; each
// response is written as one line on the writer. Logs never go to the writer.
//
// Characteristics
//
//	Connection model : 1 process <-> 1 client
//	Auth             : OS user (lightweight implicit principal)
//	Sessions         : Ephemeral; created by initialize, memory only
//	Concurrency      : initialize is handled inline, every other request on
//	                   its own goroutine; writes are serialized
//
// Example:
//
//	srv := mcpservice.NewServer(
//	    mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "example-server", Version: "1.0.0"}),
//	    mcpservice.WithResourcesCapability(mcpservice.NewCatalogResources(mcpservice.NewStaticCatalog(100))),
//	)
//	h := stdio.NewHandler(srv)
//	if err := h.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
//	    log.Fatal(err)
//	}
package stdio
