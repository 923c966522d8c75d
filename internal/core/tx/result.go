package tx

// Result is a transaction outcome code. The zero value, TesSUCCESS, is the
// only success code; every other value is some flavor of rejection or
// partial failure. Validator and ledger share this type so both halves of
// spec.md §4.2's "duplicated predicate" agree on meaning (spec.md §4.1:
// "Validator and ledger MUST agree on these values; they are the public
// contract").
type Result int32

// Result code families, following the teacher's tes/tec/tef/tem convention:
//   - tes: success.
//   - tec: the transaction claimed a fee and advanced the signer's
//     sequence, but did not otherwise mutate state as requested.
//   - tef: rejected before any mutation; the same transaction will never
//     succeed against this ledger state (e.g. stale sequence).
//   - tem: rejected before any mutation because the transaction itself is
//     malformed, independent of ledger state.
const (
	TesSUCCESS Result = 0

	// tec family (100-199): claimed-cost failures.
	TecCLAIM            Result = 100
	TecUNFUNDED         Result = 101
	TecNO_DST           Result = 102
	TecNO_LINE          Result = 103
	TecFROZEN           Result = 104
	TecREQUIRE_AUTH     Result = 105
	TecPARTIAL_PAYMENT  Result = 106
	TecSTAKE_LOCKED     Result = 108
	TecDUPLICATE        Result = 109
	TecBAD_SIG          Result = 110
	TecNO_PERMISSION    Result = 111
	TecINSUF_RESERVE    Result = 112
	TecNOT_OWNER        Result = 113
	TecSTAKE_NOT_FOUND  Result = 114
	TecINTERNAL         Result = 129
	TecDST_TAG_NEEDED   Result = 131
	TecGLOBAL_FREEZE    Result = 132

	// tef family: rejected, state-dependent, will never succeed as-is.
	TefFAILURE     Result = -199
	TefPAST_SEQ    Result = -190
	TefBAD_SEQ     Result = -189
	TefBAD_SIGNATURE Result = -186
	TefALREADY     Result = -198

	// tem family: rejected, malformed independent of ledger state.
	TemMALFORMED   Result = -299
	TemBAD_AMOUNT  Result = -298
	TemBAD_FEE     Result = -297
	TemBAD_SEQUENCE Result = -296
	TemINVALID_FLAG Result = -295
	TemDST_NEEDED  Result = -294
)

// Succeeded reports whether the code is TesSUCCESS.
func (r Result) Succeeded() bool { return r == TesSUCCESS }

// ClaimedFee reports whether the code is in the tec family: the fee was
// burned and the signer's sequence advanced even though the transaction's
// intended effect did not fully apply.
func (r Result) ClaimedFee() bool { return r >= 100 && r < 200 }

// Rejected reports whether the transaction was rejected before any state
// mutation (tef or tem family).
func (r Result) Rejected() bool { return r <= -200 || (r < 0 && r > -200) }

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return "tecUNKNOWN"
}

var resultNames = map[Result]string{
	TesSUCCESS:        "tesSUCCESS",
	TecCLAIM:          "tecCLAIM",
	TecUNFUNDED:       "tecUNFUNDED",
	TecNO_DST:         "tecNO_DST",
	TecNO_LINE:        "tecNO_LINE",
	TecFROZEN:         "tecFROZEN",
	TecREQUIRE_AUTH:   "tecREQUIRE_AUTH",
	TecPARTIAL_PAYMENT: "tecPARTIAL_PAYMENT",
	TecSTAKE_LOCKED:   "tecSTAKE_LOCKED",
	TecDUPLICATE:      "tecDUPLICATE",
	TecBAD_SIG:        "tecBAD_SIG",
	TecNO_PERMISSION:  "tecNO_PERMISSION",
	TecINSUF_RESERVE:  "tecINSUF_RESERVE",
	TecNOT_OWNER:      "tecNOT_OWNER",
	TecSTAKE_NOT_FOUND: "tecSTAKE_NOT_FOUND",
	TecINTERNAL:       "tecINTERNAL",
	TecDST_TAG_NEEDED: "tecDST_TAG_NEEDED",
	TecGLOBAL_FREEZE:  "tecGLOBAL_FREEZE",
	TefFAILURE:        "tefFAILURE",
	TefPAST_SEQ:       "tefPAST_SEQ",
	TefBAD_SEQ:        "tefBAD_SEQ",
	TefBAD_SIGNATURE:  "tefBAD_SIGNATURE",
	TefALREADY:        "tefALREADY",
	TemMALFORMED:      "temMALFORMED",
	TemBAD_AMOUNT:     "temBAD_AMOUNT",
	TemBAD_FEE:        "temBAD_FEE",
	TemBAD_SEQUENCE:   "temBAD_SEQUENCE",
	TemINVALID_FLAG:   "temINVALID_FLAG",
	TemDST_NEEDED:     "temDST_NEEDED",
}
