// Building blocks for the example servers.
//
// The resource server pairs an immutable Catalog with a paginated
// ResourcesCapability:
//
//	catalog := mcpservice.NewStaticCatalog(100)
//	srv := mcpservice.NewServer(
//	    mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "example-server", Version: "1.0.0"}),
//	    mcpservice.WithResourcesCapability(mcpservice.NewCatalogResources(catalog)),
//	)
//
// The tool server registers typed tools in a ToolsContainer. Argument schemas
// are reflected from the argument struct:
//
//	type EchoArgs struct {
//	    Message string `json:"message"`
//	}
//	echo := mcpservice.NewTool("echo", func(ctx context.Context, s sessions.Session, a EchoArgs) (string, error) {
//	    return a.Message, nil
//	}, mcpservice.WithToolDescription("Echo a message"))
//
//	srv := mcpservice.NewServer(
//	    mcpservice.WithToolsCapability(mcpservice.NewToolsContainer(mcpservice.WithTools(echo))),
//	)
//
// Tool failures never escape CallTool. They are converted to a result carrying
// an error payload with code TOOL_EXECUTION_ERROR.
package mcpservice
