// Package pgerr describes Postgres errors received from the backend: the
// SQLSTATE code space and the field-tagged DatabaseError body carried by
// ErrorResponse and NoticeResponse messages.
package pgerr

// Code represents a Postgres SQLSTATE error code.
type Code string

// http://www.postgresql.org/docs/9.5/static/errcodes-appendix.html.
var (
	// Section: Class 00 - Successful Completion
	SuccessfulCompletion Code = "00000"
	// Section: Class 01 - Warning
	Warning                                 Code = "01000"
	WarningDynamicResultSetsReturned        Code = "0100C"
	WarningImplicitZeroBitPadding           Code = "01008"
	WarningNullValueEliminatedInSetFunction Code = "01003"
	WarningPrivilegeNotGranted              Code = "01007"
	WarningPrivilegeNotRevoked              Code = "01006"
	WarningStringDataRightTruncation        Code = "01004"
	WarningDeprecatedFeature                Code = "01P01"
	// Section: Class 02 - No Data (this is also a warning class per the SQL standard)
	NoData                                Code = "02000"
	NoAdditionalDynamicResultSetsReturned Code = "02001"
	// Section: Class 03 - SQL Statement Not Yet Complete
	SQLStatementNotYetComplete Code = "03000"
	// Section: Class 08 - Connection Exception
	ConnectionException                           Code = "08000"
	ConnectionDoesNotExist                        Code = "08003"
	ConnectionFailure                             Code = "08006"
	SQLclientUnableToEstablishSQLconnection       Code = "08001"
	SQLserverRejectedEstablishmentOfSQLconnection Code = "08004"
	TransactionResolutionUnknown                  Code = "08007"
	ProtocolViolation                             Code = "08P01"
	// Section: Class 09 - Triggered Action Exception
	TriggeredActionException Code = "09000"
	// Section: Class 0A - Feature Not Supported
	FeatureNotSupported Code = "0A000"
	// Section: Class 0B - Invalid Transaction Initiation
	InvalidTransactionInitiation Code = "0B000"
	// Section: Class 20 - Case Not Found
	CaseNotFound Code = "20000"
	// Section: Class 21 - Cardinality Violation
	CardinalityViolation Code = "21000"
	// Section: Class 22 - Data Exception
	DataException                    Code = "22000"
	DivisionByZero                   Code = "22012"
	InvalidDatetimeFormat            Code = "22007"
	InvalidParameterValue            Code = "22023"
	NumericValueOutOfRange           Code = "22003"
	StringDataRightTruncation        Code = "22001"
	InvalidTextRepresentation        Code = "22P02"
	InvalidBinaryRepresentation      Code = "22P03"
	// Section: Class 23 - Integrity Constraint Violation
	IntegrityConstraintViolation Code = "23000"
	NotNullViolation             Code = "23502"
	ForeignKeyViolation          Code = "23503"
	UniqueViolation              Code = "23505"
	CheckViolation               Code = "23514"
	ExclusionViolation           Code = "23P01"
	// Section: Class 25 - Invalid Transaction State
	InvalidTransactionState Code = "25000"
	InFailedSQLTransaction  Code = "25P02"
	// Section: Class 26 - Invalid SQL Statement Name
	InvalidSQLStatementName Code = "26000"
	// Section: Class 28 - Invalid Authorization Specification
	InvalidAuthorizationSpecification Code = "28000"
	InvalidPassword                   Code = "28P01"
	// Section: Class 3D - Invalid Catalog Name
	InvalidCatalogName Code = "3D000"
	// Section: Class 40 - Transaction Rollback
	TransactionRollback  Code = "40000"
	SerializationFailure Code = "40001"
	DeadlockDetected     Code = "40P01"
	// Section: Class 42 - Syntax Error or Access Rule Violation
	SyntaxErrorOrAccessRuleViolation   Code = "42000"
	Syntax                             Code = "42601"
	InsufficientPrivilege              Code = "42501"
	UndefinedColumn                    Code = "42703"
	UndefinedFunction                  Code = "42883"
	UndefinedPreparedStatement         Code = "26000"
	UndefinedTable                     Code = "42P01"
	UndefinedParameter                 Code = "42P02"
	DuplicatePreparedStatement         Code = "42P05"
	// Section: Class 53 - Insufficient Resources
	InsufficientResources Code = "53000"
	TooManyConnections    Code = "53300"
	// Section: Class 54 - Program Limit Exceeded
	ProgramLimitExceeded Code = "54000"
	// Section: Class 57 - Operator Intervention
	OperatorIntervention Code = "57000"
	QueryCanceled        Code = "57014"
	AdminShutdown        Code = "57P01"
	CannotConnectNow     Code = "57P03"
	// Section: Class 58 - System Error
	System        Code = "58000"
	Io            Code = "58030"
	// Section: Class XX - Internal Error
	Internal      Code = "XX000"
	DataCorrupted Code = "XX001"
)

// Uncategorized is used for errors that flow out to a caller when no code
// was ever attached.
var Uncategorized Code = "XXUUU"
