package server

import (
	"encoding/json"
	"fmt"
	"net/url"

	serrors "github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/dom"
	"github.com/vango-dev/storefront/pkg/toast"
)

// Client message types.
const (
	MsgHello      = "hello"
	MsgHashChange = "hashchange"
	MsgSubmit     = "submit"
)

// Server op names beyond the document ops of package dom.
const (
	OpHash  = "hash"
	OpError = "error"
	OpToast = toast.EventName
)

// ClientMessage is a message from the browser. Every message is a JSON text
// frame.
//
//	{"type":"hello","hash":"#/products"}
//	{"type":"hashchange","hash":"#/cart"}
//	{"type":"submit","form":"add-to-cart","fields":{"id":"pixel-9"}}
type ClientMessage struct {
	Type   string            `json:"type"`
	Hash   string            `json:"hash,omitempty"`
	Form   string            `json:"form,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Values returns the submitted fields as url.Values.
func (m ClientMessage) Values() url.Values {
	values := make(url.Values, len(m.Fields))
	for k, v := range m.Fields {
		values.Set(k, v)
	}
	return values
}

// Op is a message to the browser.
//
//	{"op":"render","value":"<section>…</section>"}
//	{"op":"attr","name":"data-route","value":"home"}
//	{"op":"hash","value":"#/home"}
//	{"op":"toast","level":"success","value":"Added to cart"}
type Op struct {
	Op    string `json:"op"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
	Level string `json:"level,omitempty"`
	Title string `json:"title,omitempty"`
}

func docOp(op dom.Op) Op {
	return Op{Op: op.Kind, Name: op.Name, Value: op.Value}
}

// decodeMessage parses a client frame. Malformed JSON yields E060 and an
// unsupported type E061.
func decodeMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, serrors.New("E060").Wrap(err)
	}
	switch msg.Type {
	case MsgHello, MsgHashChange:
		return msg, nil
	case MsgSubmit:
		if msg.Form == "" {
			return ClientMessage{}, serrors.New("E060").WithDetail("submit message without a form name")
		}
		return msg, nil
	default:
		return ClientMessage{}, serrors.New("E061").WithDetail(fmt.Sprintf("message type %q", msg.Type))
	}
}
