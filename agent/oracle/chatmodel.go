package oracle

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/resource-trader/agent/contract"
)

// ChatModelOracle sends each prompt as a single user message through an eino chat model.
type ChatModelOracle struct {
	runner compose.Runnable[string, *schema.Message]
}

var _ contractx.Oracle = (*ChatModelOracle)(nil)

func NewChatModel(ctx context.Context, chatModel einomodel.BaseChatModel) (*ChatModelOracle, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	runner, err := compileOracleGraph(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("%w: compile oracle graph: %v", contractx.ErrOracleInvoke, err)
	}
	return &ChatModelOracle{runner: runner}, nil
}

func (o *ChatModelOracle) Invoke(ctx context.Context, prompt string) (string, error) {
	msg, err := o.runner.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: chat model: %v", contractx.ErrOracleInvoke, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: chat model returned no message", contractx.ErrOracleInvoke)
	}
	return msg.Content, nil
}

func compileOracleGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[string, *schema.Message], error) {
	graph := compose.NewGraph[string, *schema.Message]()

	if err := graph.AddLambdaNode("to_messages",
		compose.InvokableLambda(func(ctx context.Context, prompt string) ([]*schema.Message, error) {
			return []*schema.Message{schema.UserMessage(prompt)}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add oracle message node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add oracle model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "to_messages"); err != nil {
		return nil, fmt.Errorf("add oracle edge start->to_messages: %w", err)
	}
	if err := graph.AddEdge("to_messages", "model"); err != nil {
		return nil, fmt.Errorf("add oracle edge to_messages->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add oracle edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("oracle.chat_model"))
	if err != nil {
		return nil, fmt.Errorf("compile oracle graph: %w", err)
	}
	return runner, nil
}
