package vdom

// RenderMode discriminates the two render styles components may use.
type RenderMode int

const (
	// ModeHTML marks legacy string-template output: the subtree is
	// re-parsed and replaced wholesale on every render.
	ModeHTML RenderMode = iota
	// ModeTree marks VNode output: the subtree is diffed and patched.
	ModeTree
)

// RenderOutput is the tagged union a component's Render returns: either an
// HTML string or a VNode tree. The renderer branches on the tag, never on
// runtime type sniffing.
type RenderOutput struct {
	mode RenderMode
	html string
	tree *VNode
}

// HTML wraps string-template output.
func HTML(s string) RenderOutput {
	return RenderOutput{mode: ModeHTML, html: s}
}

// Tree wraps VNode output. A nil tree is valid and renders nothing.
func Tree(n *VNode) RenderOutput {
	return RenderOutput{mode: ModeTree, tree: n}
}

// Mode returns the output tag.
func (o RenderOutput) Mode() RenderMode { return o.mode }

// HTML returns the string payload; valid only for ModeHTML.
func (o RenderOutput) HTML() string { return o.html }

// Tree returns the tree payload; valid only for ModeTree.
func (o RenderOutput) Tree() *VNode { return o.tree }

// Empty reports whether the output renders nothing: an empty string or a
// nil tree. An empty render empties the owning component's element but never
// detaches it.
func (o RenderOutput) Empty() bool {
	if o.mode == ModeHTML {
		return o.html == ""
	}
	return o.tree == nil
}
