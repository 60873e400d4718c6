package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/matsen/scimcp/internal/args"
	"github.com/matsen/scimcp/internal/ops"
	"github.com/matsen/scimcp/internal/tools"
)

// toolFor derives the MCP tool definition from an operation's schema.
// Patterns are not advertised: they apply after normalization, so a DOI URL
// is valid input even though it does not match the DOI pattern.
func toolFor(op ops.Operation) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(op.Description),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(op.Group != tools.GroupLocal),
	}
	if op.Title != "" {
		opts = append(opts, mcp.WithTitleAnnotation(op.Title))
	}
	for _, f := range op.Schema.Fields {
		opts = append(opts, fieldOption(f))
	}
	return mcp.NewTool(op.Name, opts...)
}

func fieldOption(f args.Field) mcp.ToolOption {
	props := []mcp.PropertyOption{mcp.Description(f.Description)}
	if f.Required {
		props = append(props, mcp.Required())
	}

	switch f.Kind {
	case args.Integer, args.Number:
		if f.Bounds != nil {
			props = append(props, mcp.Min(f.Bounds.Min), mcp.Max(f.Bounds.Max))
		}
		switch d := f.Default.(type) {
		case int:
			props = append(props, mcp.DefaultNumber(float64(d)))
		case float64:
			props = append(props, mcp.DefaultNumber(d))
		}
		return mcp.WithNumber(f.Name, props...)

	case args.Boolean:
		if d, ok := f.Default.(bool); ok {
			props = append(props, mcp.DefaultBool(d))
		}
		return mcp.WithBoolean(f.Name, props...)

	case args.StringList, args.AnyList:
		itemType := "string"
		if f.Kind == args.AnyList {
			itemType = "object"
		}
		props = append(props, mcp.Items(map[string]any{"type": itemType}))
		if f.Bounds != nil {
			props = append(props, mcp.MinItems(int(f.Bounds.Min)), mcp.MaxItems(int(f.Bounds.Max)))
		}
		return mcp.WithArray(f.Name, props...)

	case args.Object:
		return mcp.WithObject(f.Name, props...)
	}

	if len(f.Enum) > 0 {
		props = append(props, mcp.Enum(f.Enum...))
	}
	if d, ok := f.Default.(string); ok {
		props = append(props, mcp.DefaultString(d))
	}
	return mcp.WithString(f.Name, props...)
}
