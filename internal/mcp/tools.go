package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listElementsTool defines the list_elements MCP tool.
var listElementsTool = mcp.NewTool("list_elements",
	mcp.WithDescription("List chemical elements with atomic number, symbol, name and category."),
	mcp.WithString("match",
		mcp.Description("Glob matched against symbol or name, e.g. \"C*\" or \"*ium\""),
	),
	mcp.WithString("category",
		mcp.Description("Only list elements of this category, e.g. \"Noble Gas\""),
	),
)

// getElementTool defines the get_element MCP tool.
var getElementTool = mcp.NewTool("get_element",
	mcp.WithDescription("Get the properties of one element: mass, configuration, shells, nucleon counts and summary."),
	mcp.WithString("element",
		mcp.Required(),
		mcp.Description("Atomic number, symbol or name"),
	),
)

// getSceneTool defines the get_scene MCP tool.
var getSceneTool = mcp.NewTool("get_scene",
	mcp.WithDescription("Get the Bohr-model layout of an atom: nucleon positions and electron shells."),
	mcp.WithString("element",
		mcp.Required(),
		mcp.Description("Atomic number, symbol or name"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default json)"),
		mcp.Enum("json", "svg"),
	),
	mcp.WithNumber("seed",
		mcp.Description("Seed for a reproducible nucleon shuffle"),
	),
)

// getInsightTool defines the get_insight MCP tool.
var getInsightTool = mcp.NewTool("get_insight",
	mcp.WithDescription("Get an AI-generated fun fact, real-world use and bonding behavior for an element."),
	mcp.WithString("element",
		mcp.Required(),
		mcp.Description("Atomic number, symbol or name"),
	),
)

// searchElementsTool defines the search_elements MCP tool.
var searchElementsTool = mcp.NewTool("search_elements",
	mcp.WithDescription("Find elements by meaning, e.g. \"used in batteries\" or \"glows in signs\", ranked by semantic similarity."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Free-text description of what you are looking for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results (default 5)"),
	),
	mcp.WithString("category",
		mcp.Description("Only return elements of this category"),
	),
)
