package pongo

import (
	"bytes"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-promptgen/pkg/render"
)

const promptTagName = "prompt"

// blockCollectionKey holds the pass's *render.Blocks in the template context.
// Templates read render.BlocksKey instead, which the tag refreshes after
// every block.
const blockCollectionKey = "_promptgen_block_collection"

var (
	promptTagOnce sync.Once
	promptTagErr  error
)

// registerPromptTag installs {% prompt %}...{% endprompt %}. pongo2 keeps tags
// in a process-wide table, so the registration runs once.
func registerPromptTag() error {
	promptTagOnce.Do(func() {
		promptTagErr = pongo2.RegisterTag(promptTagName, parsePromptTag)
	})
	return promptTagErr
}

type promptNode struct {
	position *pongo2.Token
	body     *pongo2.NodeWrapper
}

// Execute renders the body once, records the text in the pass's block
// collection and emits it unchanged. The public context is shared by the
// whole pass, so later expressions see the updated prompt_blocks list.
func (node *promptNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	blocks, ok := ctx.Public[blockCollectionKey].(*render.Blocks)
	if !ok || blocks == nil {
		return ctx.OrigError(render.ErrNoBlockCollection, node.position)
	}

	var buf bytes.Buffer
	if err := node.body.Execute(ctx, &buf); err != nil {
		return err
	}

	text := buf.String()
	blocks.Append(text)
	ctx.Public[render.BlocksKey] = blocks.Values()

	if _, err := writer.WriteString(text); err != nil {
		return ctx.OrigError(err, node.position)
	}
	return nil
}

func parsePromptTag(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	if arguments.Remaining() > 0 {
		return nil, arguments.Error("prompt tag takes no arguments", nil)
	}

	wrapper, endArgs, err := doc.WrapUntilTag("end" + promptTagName)
	if err != nil {
		return nil, err
	}
	if endArgs.Remaining() > 0 {
		return nil, endArgs.Error("endprompt takes no arguments", nil)
	}

	return &promptNode{position: start, body: wrapper}, nil
}
