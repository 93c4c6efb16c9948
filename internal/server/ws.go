package server

import (
    "context"
    "errors"
    "io"
    "net/http"
    "sync"

    "github.com/charmbracelet/log"
    "github.com/google/uuid"
    "github.com/gorilla/websocket"
    "github.com/modelcontextprotocol/go-sdk/jsonrpc"
    "github.com/modelcontextprotocol/go-sdk/mcp"
)

type WSOptions struct {
    Enable     bool
    PathPrefix string
}

var upgrader = websocket.Upgrader{ CheckOrigin: func(r *http.Request) bool { return true } }

// RegisterWSRoutes serves MCP over WebSocket at <prefix>/mcp. Every text
// frame carries one JSON-RPC message.
func RegisterWSRoutes(mux *http.ServeMux, d Dependencies, o WSOptions) {
    if !o.Enable || d.MCP == nil { return }
    prefix := o.PathPrefix
    if prefix == "" { prefix = "/ws" }
    logger := d.logger()

    mux.HandleFunc(prefix+"/mcp", func(w http.ResponseWriter, r *http.Request) {
        conn, err := upgrader.Upgrade(w, r, nil)
        if err != nil {
            logger.Warn("websocket upgrade failed", "err", err)
            return
        }
        ss, err := d.MCP.Connect(r.Context(), &WSTransport{Conn: conn}, nil)
        if err != nil {
            logger.Warn("mcp session failed", "remote", r.RemoteAddr, "err", err)
            conn.Close()
            return
        }
        logger.Debug("websocket session started", "remote", r.RemoteAddr, "session", ss.ID())
        if err := ss.Wait(); err != nil && !isClosed(err) {
            logger.Debug("websocket session ended", "session", ss.ID(), "err", err)
        }
    })
    logger.Info("WebSocket MCP endpoint enabled", "path", prefix+"/mcp")
}

// WSTransport carries an MCP session over an established WebSocket. It serves
// both ends: servers wrap upgraded connections, clients wrap dialed ones.
type WSTransport struct {
    Conn *websocket.Conn
}

func (t *WSTransport) Connect(ctx context.Context) (mcp.Connection, error) {
    if t.Conn == nil { return nil, errors.New("websocket transport without connection") }
    c := &wsConn{id: uuid.NewString(), conn: t.Conn, incoming: make(chan wsFrame, 1), done: make(chan struct{})}
    go c.readLoop()
    return c, nil
}

// DialWS opens a client side WebSocket transport to url.
func DialWS(ctx context.Context, url string) (*WSTransport, error) {
    conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
    if err != nil { return nil, err }
    return &WSTransport{Conn: conn}, nil
}

type wsFrame struct {
    msg jsonrpc.Message
    err error
}

type wsConn struct {
    id       string
    conn     *websocket.Conn
    incoming chan wsFrame
    done     chan struct{}

    writeMu   sync.Mutex
    closeOnce sync.Once
    closeErr  error
}

// readLoop is the only reader of conn, as gorilla requires.
func (c *wsConn) readLoop() {
    defer close(c.incoming)
    for {
        typ, data, err := c.conn.ReadMessage()
        if err != nil {
            c.deliver(wsFrame{err: err})
            return
        }
        if typ != websocket.TextMessage { continue }
        msg, err := jsonrpc.DecodeMessage(data)
        if !c.deliver(wsFrame{msg: msg, err: err}) { return }
    }
}

func (c *wsConn) deliver(f wsFrame) bool {
    select {
    case c.incoming <- f:
        return true
    case <-c.done:
        return false
    }
}

func (c *wsConn) Read(ctx context.Context) (jsonrpc.Message, error) {
    select {
    case f, ok := <-c.incoming:
        if !ok { return nil, errClosed }
        if f.err != nil && isClosed(f.err) { return nil, errClosed }
        return f.msg, f.err
    case <-c.done:
        return nil, errClosed
    case <-ctx.Done():
        return nil, ctx.Err()
    }
}

func (c *wsConn) Write(ctx context.Context, msg jsonrpc.Message) error {
    data, err := jsonrpc.EncodeMessage(msg)
    if err != nil { return err }
    if err := ctx.Err(); err != nil { return err }
    c.writeMu.Lock()
    defer c.writeMu.Unlock()
    select {
    case <-c.done:
        return errClosed
    default:
    }
    return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
    c.closeOnce.Do(func() {
        close(c.done)
        c.writeMu.Lock()
        _ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
        c.writeMu.Unlock()
        c.closeErr = c.conn.Close()
    })
    return c.closeErr
}

func (c *wsConn) SessionID() string { return c.id }

// errClosed is what the SDK expects from a transport that ended cleanly.
var errClosed = io.EOF

func isClosed(err error) bool {
    if errors.Is(err, errClosed) { return true }
    return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

func (d Dependencies) logger() *log.Logger {
    if d.Logger != nil { return d.Logger }
    return log.Default()
}
