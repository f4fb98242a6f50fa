package mesh

import (
	"golang.org/x/xerrors"

	"go.dedis.ch/mesh/node"
	"go.dedis.ch/mesh/wire"
)

// MessageSize is the maximum size in bytes of one frame handed to the
// link, matching the underlying radio's MTU.
const MessageSize = 256

// MessageType tags the variant of a MessageContent on the wire.
type MessageType byte

// Wire tags, see spec §4.4. Values are fixed by the protocol and must
// never be renumbered.
const (
	TypeApplication         MessageType = 0x01
	TypeDiscovery           MessageType = 0x02
	TypeInvitation          MessageType = 0x03
	TypeRequestNews         MessageType = 0x04
	TypeSendNew             MessageType = 0x05
	TypeFinSendNew          MessageType = 0x06
	TypeUpsertEdge          MessageType = 0x07
	TypeRequestInitTopology MessageType = 0x08
)

func (t MessageType) String() string {
	switch t {
	case TypeApplication:
		return "Application"
	case TypeDiscovery:
		return "Discovery"
	case TypeInvitation:
		return "Invitation"
	case TypeRequestNews:
		return "RequestNews"
	case TypeSendNew:
		return "SendNew"
	case TypeFinSendNew:
		return "FinSendNew"
	case TypeUpsertEdge:
		return "UpsertEdge"
	case TypeRequestInitTopology:
		return "RequestInitTopology"
	default:
		return "Unknown"
	}
}

// MessageContent is the tagged-union payload carried inside every frame.
// The interface is sealed: only the variant types defined in this file
// implement it, via the unexported encodeBody method.
type MessageContent interface {
	Type() MessageType
	encodeBody(out []byte) ([]byte, error)
}

// ApplicationContent carries an application-layer payload.
type ApplicationContent struct {
	Data []byte
}

// Type implements MessageContent.
func (ApplicationContent) Type() MessageType { return TypeApplication }

func (c ApplicationContent) encodeBody(out []byte) ([]byte, error) {
	if len(c.Data) > MessageSize-3 {
		return nil, xerrors.Errorf("application payload of %d bytes: %w", len(c.Data), wire.ErrBufferCapacity)
	}
	out = append(out, byte(len(c.Data)))
	return append(out, c.Data...), nil
}

func decodeApplication(c *wire.Cursor) (ApplicationContent, error) {
	lb, err := c.Take(1)
	if err != nil {
		return ApplicationContent{}, err
	}
	data, err := c.Take(int(lb[0]))
	if err != nil {
		return ApplicationContent{}, err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return ApplicationContent{Data: cp}, nil
}

// DiscoveryContent announces "I am looking for a tree" with no payload.
type DiscoveryContent struct{}

// Type implements MessageContent.
func (DiscoveryContent) Type() MessageType { return TypeDiscovery }

func (DiscoveryContent) encodeBody(out []byte) ([]byte, error) { return out, nil }

func decodeDiscovery(*wire.Cursor) (DiscoveryContent, error) { return DiscoveryContent{}, nil }

// InvitationContent is defined on the wire but, per spec §9, never sent by
// any role in this implementation.
type InvitationContent struct{}

// Type implements MessageContent.
func (InvitationContent) Type() MessageType { return TypeInvitation }

func (InvitationContent) encodeBody(out []byte) ([]byte, error) { return out, nil }

func decodeInvitation(*wire.Cursor) (InvitationContent, error) { return InvitationContent{}, nil }

// RequestNewsContent asks a neighbor to report its pending Discovery news.
type RequestNewsContent struct{}

// Type implements MessageContent.
func (RequestNewsContent) Type() MessageType { return TypeRequestNews }

func (RequestNewsContent) encodeBody(out []byte) ([]byte, error) { return out, nil }

func decodeRequestNews(*wire.Cursor) (RequestNewsContent, error) { return RequestNewsContent{}, nil }

// SendNewContent reports one Discovery sighting: the node heard and the
// RSSI it was heard at.
type SendNewContent struct {
	Node node.Node
	Rssi int32
}

// Type implements MessageContent.
func (SendNewContent) Type() MessageType { return TypeSendNew }

func (c SendNewContent) encodeBody(out []byte) ([]byte, error) {
	out, err := c.Node.Encode(out)
	if err != nil {
		return nil, err
	}
	return wire.EncodeInt32LE(out, c.Rssi), nil
}

func decodeSendNew(c *wire.Cursor) (SendNewContent, error) {
	n, err := node.Decode(c)
	if err != nil {
		return SendNewContent{}, err
	}
	rssi, err := wire.DecodeInt32LE(c)
	if err != nil {
		return SendNewContent{}, err
	}
	return SendNewContent{Node: n, Rssi: rssi}, nil
}

// FinSendNewContent closes out a SendNew burst for one requester.
type FinSendNewContent struct{}

// Type implements MessageContent.
func (FinSendNewContent) Type() MessageType { return TypeFinSendNew }

func (FinSendNewContent) encodeBody(out []byte) ([]byte, error) { return out, nil }

func decodeFinSendNew(*wire.Cursor) (FinSendNewContent, error) { return FinSendNewContent{}, nil }

// UpsertEdgeContent asks the receiver to place Child under Parent in its
// tree. A nil Child means "the sender"; a nil Parent means "the sender";
// per spec §4.8, a Parent equal to the receiver's own identity means "the
// root of my tree". Resolving these conventions is the caller's job (see
// the follower role), not this type's.
type UpsertEdgeContent struct {
	Child  *node.Node
	Parent *node.Node
}

// Type implements MessageContent.
func (UpsertEdgeContent) Type() MessageType { return TypeUpsertEdge }

func (c UpsertEdgeContent) encodeBody(out []byte) ([]byte, error) {
	out, err := encodeOptionNode(out, c.Child)
	if err != nil {
		return nil, err
	}
	return encodeOptionNode(out, c.Parent)
}

func decodeUpsertEdge(c *wire.Cursor) (UpsertEdgeContent, error) {
	child, err := decodeOptionNode(c)
	if err != nil {
		return UpsertEdgeContent{}, err
	}
	parent, err := decodeOptionNode(c)
	if err != nil {
		return UpsertEdgeContent{}, err
	}
	return UpsertEdgeContent{Child: child, Parent: parent}, nil
}

func encodeOptionNode(out []byte, n *node.Node) ([]byte, error) {
	if n == nil {
		return wire.EncodeOption(out, node.Node{}, true)
	}
	return wire.EncodeOption(out, *n, false)
}

func decodeOptionNode(c *wire.Cursor) (*node.Node, error) {
	v, present, err := wire.DecodeOption(c, node.Decode)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return &v, nil
}

// RequestInitTopologyContent asks the receiver (the newcomer's parent) to
// send the newcomer the full known topology.
type RequestInitTopologyContent struct {
	Node node.Node
}

// Type implements MessageContent.
func (RequestInitTopologyContent) Type() MessageType { return TypeRequestInitTopology }

func (c RequestInitTopologyContent) encodeBody(out []byte) ([]byte, error) {
	return c.Node.Encode(out)
}

func decodeRequestInitTopology(c *wire.Cursor) (RequestInitTopologyContent, error) {
	n, err := node.Decode(c)
	if err != nil {
		return RequestInitTopologyContent{}, err
	}
	return RequestInitTopologyContent{Node: n}, nil
}

// EncodeMessageContent appends the tag byte and body of c to out.
func EncodeMessageContent(out []byte, c MessageContent) ([]byte, error) {
	out = append(out, byte(c.Type()))
	return c.encodeBody(out)
}

// DecodeMessageContent reads a tag byte and dispatches to the matching
// variant's decoder. An unregistered tag yields ErrInvalidMessageType.
func DecodeMessageContent(c *wire.Cursor) (MessageContent, error) {
	tb, err := c.Take(1)
	if err != nil {
		return nil, err
	}
	switch MessageType(tb[0]) {
	case TypeApplication:
		return decodeApplication(c)
	case TypeDiscovery:
		return decodeDiscovery(c)
	case TypeInvitation:
		return decodeInvitation(c)
	case TypeRequestNews:
		return decodeRequestNews(c)
	case TypeSendNew:
		return decodeSendNew(c)
	case TypeFinSendNew:
		return decodeFinSendNew(c)
	case TypeUpsertEdge:
		return decodeUpsertEdge(c)
	case TypeRequestInitTopology:
		return decodeRequestInitTopology(c)
	default:
		return nil, xerrors.Errorf("tag 0x%02x: %w", tb[0], ErrInvalidMessageType)
	}
}

// organizationTypes are every MessageType except Application; routed to
// the control plane rather than delivered to the application (spec §4.5,
// GLOSSARY "Organization message").
var organizationTypes = map[MessageType]bool{
	TypeDiscovery:           true,
	TypeInvitation:          true,
	TypeRequestNews:         true,
	TypeSendNew:             true,
	TypeFinSendNew:          true,
	TypeUpsertEdge:          true,
	TypeRequestInitTopology: true,
}

// SendMessage is an outgoing frame: content plus routing metadata, ready
// to serialize onto the link.
type SendMessage struct {
	Content          MessageContent
	FinalDestination node.Node
	// FinalSource is set only on forwarded frames; nil means "let the
	// receiver substitute the immediate link source".
	FinalSource *node.Node
}

// Serialize writes content, then FinalDestination, then Option<FinalSource>.
func (m SendMessage) Serialize() ([]byte, error) {
	out, err := EncodeMessageContent(make([]byte, 0, MessageSize), m.Content)
	if err != nil {
		if xerrors.Is(err, wire.ErrBufferCapacity) {
			return nil, xerrors.Errorf("encoding content: %w", ErrMessageTooLarge)
		}
		return nil, xerrors.Errorf("encoding content: %w", err)
	}
	out, err = m.FinalDestination.Encode(out)
	if err != nil {
		return nil, xerrors.Errorf("encoding final destination: %w", err)
	}
	out, err = encodeOptionNode(out, m.FinalSource)
	if err != nil {
		return nil, xerrors.Errorf("encoding final source: %w", err)
	}
	if len(out) > MessageSize {
		return nil, xerrors.Errorf("frame of %d bytes: %w", len(out), ErrMessageTooLarge)
	}
	return out, nil
}

// ReceiveMessage is a frame as decoded off the link, with FinalSource
// always resolved to a concrete Node (substituted from the link source
// when absent on the wire).
type ReceiveMessage struct {
	Content          MessageContent
	FinalDestination node.Node
	FinalSource      node.Node
	Rssi             int32

	linkDestination node.Node
}

// NewReceiveMessage decodes payload (as produced by SendMessage.Serialize)
// received over a link from linkSrc addressed to linkDst with the given
// RSSI.
func NewReceiveMessage(payload []byte, linkDst, linkSrc node.Node, rssi int32) (*ReceiveMessage, error) {
	c := wire.NewCursor(payload)
	content, err := DecodeMessageContent(c)
	if err != nil {
		return nil, xerrors.Errorf("decoding content: %w", err)
	}
	dst, err := node.Decode(c)
	if err != nil {
		return nil, xerrors.Errorf("decoding final destination: %w", err)
	}
	src, err := decodeOptionNode(c)
	if err != nil {
		return nil, xerrors.Errorf("decoding final source: %w", err)
	}
	finalSource := linkSrc
	if src != nil {
		finalSource = *src
	}
	return &ReceiveMessage{
		Content:          content,
		FinalDestination: dst,
		FinalSource:      finalSource,
		Rssi:             rssi,
		linkDestination:  linkDst,
	}, nil
}

// IsFinalDestination reports whether this node is the ultimate recipient.
func (r *ReceiveMessage) IsFinalDestination() bool {
	return r.FinalDestination.Equal(r.linkDestination)
}

// IsOrganization reports whether Content is a control-plane variant
// (anything but Application).
func (r *ReceiveMessage) IsOrganization() bool {
	return organizationTypes[r.Content.Type()]
}

// ToSendMessage converts a received frame into one ready to forward:
// Content and FinalDestination are preserved, FinalSource is carried
// forward explicitly so a re-forward never loses the original sender.
func (r *ReceiveMessage) ToSendMessage() SendMessage {
	src := r.FinalSource
	return SendMessage{
		Content:          r.Content,
		FinalDestination: r.FinalDestination,
		FinalSource:      &src,
	}
}
