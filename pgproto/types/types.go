// Package types holds the wire tag constants shared between pgproto's
// frontend and backend message codecs.
package types

// FrontendTag identifies an outbound (client-to-server) message.
type FrontendTag byte

// BackendTag identifies an inbound (server-to-client) message.
type BackendTag byte

// http://www.postgresql.org/docs/9.4/static/protocol-message-formats.html
const (
	FrontendBind        FrontendTag = 'B'
	FrontendClose       FrontendTag = 'C'
	FrontendCopyData    FrontendTag = 'd'
	FrontendCopyDone    FrontendTag = 'c'
	FrontendCopyFail    FrontendTag = 'f'
	FrontendDescribe    FrontendTag = 'D'
	FrontendExecute     FrontendTag = 'E'
	FrontendFlush       FrontendTag = 'H'
	FrontendParse       FrontendTag = 'P'
	FrontendPassword    FrontendTag = 'p'
	FrontendSimpleQuery FrontendTag = 'Q'
	FrontendSync        FrontendTag = 'S'
	FrontendTerminate   FrontendTag = 'X'

	BackendAuth                 BackendTag = 'R'
	BackendBackendKeyData       BackendTag = 'K'
	BackendBindComplete         BackendTag = '2'
	BackendCommandComplete      BackendTag = 'C'
	BackendCloseComplete        BackendTag = '3'
	BackendDataRow              BackendTag = 'D'
	BackendEmptyQuery           BackendTag = 'I'
	BackendErrorResponse        BackendTag = 'E'
	BackendNoticeResponse       BackendTag = 'N'
	BackendNoData               BackendTag = 'n'
	BackendParameterDescription BackendTag = 't'
	BackendParameterStatus      BackendTag = 'S'
	BackendParseComplete        BackendTag = '1'
	BackendPortalSuspended      BackendTag = 's'
	BackendReadyForQuery        BackendTag = 'Z'
	BackendRowDescription       BackendTag = 'T'
)

func (t FrontendTag) String() string {
	switch t {
	case FrontendBind:
		return "Bind"
	case FrontendClose:
		return "Close"
	case FrontendCopyData:
		return "CopyData"
	case FrontendCopyDone:
		return "CopyDone"
	case FrontendCopyFail:
		return "CopyFail"
	case FrontendDescribe:
		return "Describe"
	case FrontendExecute:
		return "Execute"
	case FrontendFlush:
		return "Flush"
	case FrontendParse:
		return "Parse"
	case FrontendPassword:
		return "Password"
	case FrontendSimpleQuery:
		return "SimpleQuery"
	case FrontendSync:
		return "Sync"
	case FrontendTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

func (t BackendTag) String() string {
	switch t {
	case BackendAuth:
		return "Authentication"
	case BackendBackendKeyData:
		return "BackendKeyData"
	case BackendBindComplete:
		return "BindComplete"
	case BackendCommandComplete:
		return "CommandComplete"
	case BackendCloseComplete:
		return "CloseComplete"
	case BackendDataRow:
		return "DataRow"
	case BackendEmptyQuery:
		return "EmptyQueryResponse"
	case BackendErrorResponse:
		return "ErrorResponse"
	case BackendNoticeResponse:
		return "NoticeResponse"
	case BackendNoData:
		return "NoData"
	case BackendParameterDescription:
		return "ParameterDescription"
	case BackendParameterStatus:
		return "ParameterStatus"
	case BackendParseComplete:
		return "ParseComplete"
	case BackendPortalSuspended:
		return "PortalSuspended"
	case BackendReadyForQuery:
		return "ReadyForQuery"
	case BackendRowDescription:
		return "RowDescription"
	default:
		return "Unknown"
	}
}
