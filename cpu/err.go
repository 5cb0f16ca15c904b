package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted         = errors.New(f("cpu halted"))
	ErrDivideByZero   = errors.New(f("divide by zero"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrAluOp          = errors.New(f("alu op invalid"))
	ErrProgramSize    = errors.New(f("program exceeds memory"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrRegisterSyntax  = errors.New(f("register invalid"))
	ErrImmediateRange  = errors.New(f("immediate out of range"))
)

// ErrAddress indicates a memory access outside the valid address range.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address %#04x out of range", int(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

// ErrRegister indicates a general-purpose register index outside r0-r7.
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("register %d invalid", int(er))
}

func (er ErrRegister) Is(err error) (ok bool) {
	_, ok = err.(ErrRegister)
	return
}

// ErrUnknownCode indicates an opcode byte with no registered handler,
// recording the offending byte and the program counter it was fetched from.
type ErrUnknownCode struct {
	Code Code
	Pc   int
}

func (eu ErrUnknownCode) Error() string {
	return f("unknown opcode %#08b at pc %#04x", byte(eu.Code), eu.Pc)
}

func (eu ErrUnknownCode) Is(err error) (ok bool) {
	_, ok = err.(ErrUnknownCode)
	return
}

// ErrFault wraps an instruction-level failure with the faulting
// instruction and its program counter.
type ErrFault struct {
	Code Code
	Pc   int
	Err  error
}

func (ef *ErrFault) Error() string {
	return f("pc %#04x %v: %v", ef.Pc, ef.Code, ef.Err)
}

func (ef *ErrFault) Unwrap() error {
	return ef.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err *ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err *ErrMacro) Unwrap() error {
	return err.Err
}
