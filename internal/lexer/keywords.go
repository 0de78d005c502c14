package lexer

import "sort"

// keywords maps reserved spellings to their token types. It is built once at
// package initialization and never written afterwards.
var keywords = map[string]TokenType{
	"abstract": TokenAbstract,
	"as":       TokenAs,
	"async":    TokenAsync,
	"atomic":   TokenAtomic,
	"await":    TokenAwait,
	"bool":     TokenBoolean,
	"break":    TokenBreak,
	"bundle":   TokenBundle,
	"case":     TokenCase,
	"char":     TokenChar,
	"class":    TokenClass,
	"const":    TokenConst,
	"continue": TokenContinue,
	"default":  TokenDefault,
	"do":       TokenDo,
	"double":   TokenDouble,
	"else":     TokenElse,
	"enum":     TokenEnum,
	"Fail":     TokenFail,
	"false":    TokenFalse,
	"final":    TokenFinal,
	"for":      TokenFor,
	"func":     TokenFunc,
	"goto":     TokenGoto,
	"if":       TokenIf,
	"impl":     TokenImpl,
	"import":   TokenImport,
	"inline":   TokenInline,
	"inter":    TokenInter,
	"internal": TokenInternal,
	"is":       TokenIs,
	"let":      TokenLet,
	"match":    TokenMatch,
	"module":   TokenModule,
	"new":      TokenNew,
	"null":     TokenNull,
	"Ok":       TokenOk,
	"override": TokenOverride,
	"private":  TokenPrivate,
	"public":   TokenPublic,
	"ret":      TokenReturn,
	"sizeof":   TokenSizeof,
	"spawn":    TokenSpawn,
	"static":   TokenStatic,
	"string":   TokenString,
	"struct":   TokenStruct,
	"super":    TokenSuper,
	"switch":   TokenSwitch,
	"this":     TokenThis,
	"thread":   TokenThread,
	"true":     TokenTrue,
	"type":     TokenTypeKeyword,
	"typeof":   TokenTypeof,
	"union":    TokenUnion,
	"use":      TokenUse,
	"var":      TokenVar,
	"virtual":  TokenVirtual,
	"while":    TokenWhile,
	"yield":    TokenYield,

	// Primitive types: short, canonical, and unsized spellings.
	"i8":      TokenInt8,
	"i16":     TokenInt16,
	"i32":     TokenInt32,
	"i64":     TokenInt64,
	"int":     TokenInt64,
	"int8":    TokenInt8,
	"int16":   TokenInt16,
	"int32":   TokenInt32,
	"int64":   TokenInt64,
	"u8":      TokenUint8,
	"u16":     TokenUint16,
	"u32":     TokenUint32,
	"u64":     TokenUint64,
	"uint":    TokenUint64,
	"uint8":   TokenUint8,
	"uint16":  TokenUint16,
	"uint32":  TokenUint32,
	"uint64":  TokenUint64,
	"f8":      TokenFloat8,
	"f16":     TokenFloat16,
	"f32":     TokenFloat32,
	"f64":     TokenFloat64,
	"float":   TokenFloat64,
	"float8":  TokenFloat8,
	"float16": TokenFloat16,
	"float32": TokenFloat32,
	"float64": TokenFloat64,
}

// LookupIdent returns the keyword type for an exact, case-sensitive match of
// ident, or TokenIdentifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// Keywords returns the reserved spellings in sorted order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
