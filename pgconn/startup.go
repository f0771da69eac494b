package pgconn

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/heronpg/pgwire/pgproto/backend"
	"github.com/heronpg/pgwire/pgproto/frontend"
	"github.com/heronpg/pgwire/pgproto/types"
)

// startup runs the protocol's startup phase on a freshly dialed stream:
// send the StartupMessage, answer whatever authentication request comes
// back, then drain ParameterStatus/BackendKeyData until ReadyForQuery.
// This is the client-initiated mirror of the teacher's handshake.go,
// which instead receives a StartupMessage and drives the server side of
// the same exchange.
func startup(ctx context.Context, s *stream, opts PgOptions) (backend.BackendKeyData, map[string]string, error) {
	s.sendStartup(&frontend.StartupMessage{
		ProtocolVersion: types.Version30,
		Parameters: map[string]string{
			"user":     opts.User,
			"database": opts.DBName,
		},
	})
	if err := s.flush(ctx); err != nil {
		return backend.BackendKeyData{}, nil, wrap(KindIO, err)
	}

	if err := authenticate(ctx, s, opts); err != nil {
		return backend.BackendKeyData{}, nil, err
	}

	var keyData backend.BackendKeyData
	params := make(map[string]string)

	for {
		msg, err := s.recv(ctx)
		if err != nil {
			return backend.BackendKeyData{}, nil, wrap(KindIO, err)
		}

		switch m := msg.(type) {
		case *backend.ParameterStatus:
			params[m.Name] = m.Value
		case *backend.BackendKeyData:
			keyData = *m
		case *backend.ReadyForQuery:
			return keyData, params, nil
		case *backend.ErrorResponse:
			return backend.BackendKeyData{}, nil, databaseError(m.Raw)
		default:
			return backend.BackendKeyData{}, nil, wrap(KindProtocol, fmt.Errorf("pgconn: unexpected message %T during startup", m))
		}
	}
}

// authenticate answers the backend's AuthenticationXXX request. Cleartext
// and MD5 are handled directly; SASL, GSSAPI, Kerberos and SSPI are
// explicitly out of scope and surface KindUnsupported.
func authenticate(ctx context.Context, s *stream, opts PgOptions) error {
	msg, err := s.recv(ctx)
	if err != nil {
		return wrap(KindIO, err)
	}

	auth, ok := msg.(*backend.Authentication)
	if !ok {
		if errResp, ok := msg.(*backend.ErrorResponse); ok {
			return databaseError(errResp.Raw)
		}
		return wrap(KindProtocol, fmt.Errorf("pgconn: unexpected message %T, wanted Authentication", msg))
	}

	switch auth.Type {
	case backend.AuthTypeOK:
		return nil
	case backend.AuthTypeCleartextPassword:
		s.send(&frontend.PasswordMessage{Password: opts.Pass})
	case backend.AuthTypeMD5Password:
		s.send(&frontend.PasswordMessage{Password: md5Password(opts.User, opts.Pass, auth.MD5Salt)})
	case backend.AuthTypeKerberosV5, backend.AuthTypeSCMCredential, backend.AuthTypeGSS,
		backend.AuthTypeGSSContinue, backend.AuthTypeSSPI, backend.AuthTypeSASL,
		backend.AuthTypeSASLContinue, backend.AuthTypeSASLFinal:
		return wrap(KindUnsupported, fmt.Errorf("pgconn: unsupported authentication method (type %d)", auth.Type))
	default:
		return wrap(KindUnsupported, fmt.Errorf("pgconn: unknown authentication type %d", auth.Type))
	}

	if err := s.flush(ctx); err != nil {
		return wrap(KindIO, err)
	}

	msg, err = s.recv(ctx)
	if err != nil {
		return wrap(KindIO, err)
	}

	switch m := msg.(type) {
	case *backend.Authentication:
		if m.Type != backend.AuthTypeOK {
			return wrap(KindProtocol, fmt.Errorf("pgconn: expected AuthenticationOk, got auth type %d", m.Type))
		}
		return nil
	case *backend.ErrorResponse:
		return databaseError(m.Raw)
	default:
		return wrap(KindProtocol, fmt.Errorf("pgconn: unexpected message %T after password response", m))
	}
}

// md5Password implements the protocol's fixed MD5 challenge-response:
// "md5" + md5(md5(password + username) + salt), hex-encoded.
func md5Password(username, password string, salt [4]byte) string {
	inner := md5.Sum([]byte(password + username))
	innerHex := hex.EncodeToString(inner[:])

	outer := md5.New()
	outer.Write([]byte(innerHex))
	outer.Write(salt[:])

	return "md5" + hex.EncodeToString(outer.Sum(nil))
}
