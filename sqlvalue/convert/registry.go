package convert

import (
	"github.com/wbrown/janus-values/sqlvalue"
)

// rule is the reconstruction applied when an event carries a reserved
// type name. Each call site consults its own table; names missing from a
// table get ruleGeneric.
type rule uint8

const (
	ruleGeneric rule = iota
	ruleValue

	ruleStrand
	ruleBytes
	ruleDuration
	ruleDatetime
	ruleUuid
	ruleParam
	ruleTable
	ruleRegex
	ruleArray
	ruleObject
	ruleBlock
	ruleFuture
	ruleIdiom

	ruleNumber
	ruleGeometry
	ruleSubquery

	ruleConstant

	ruleModel
	ruleFunction

	ruleThing
	ruleExpression
	ruleEdges
	ruleRange
)

var (
	newtypeStructRules = map[string]rule{
		sqlvalue.TokenStrand:   ruleStrand,
		sqlvalue.TokenBlock:    ruleBlock,
		sqlvalue.TokenDuration: ruleDuration,
		sqlvalue.TokenFuture:   ruleFuture,
		sqlvalue.TokenRegex:    ruleRegex,
		sqlvalue.TokenTable:    ruleTable,
		sqlvalue.TokenIdiom:    ruleIdiom,
		sqlvalue.TokenParam:    ruleParam,
		sqlvalue.TokenArray:    ruleArray,
		sqlvalue.TokenObject:   ruleObject,
		sqlvalue.TokenUuid:     ruleUuid,
		sqlvalue.TokenDatetime: ruleDatetime,
		sqlvalue.TokenBytes:    ruleBytes,
	}

	newtypeVariantRules = map[string]rule{
		sqlvalue.TokenNumber:   ruleNumber,
		sqlvalue.TokenSubquery: ruleSubquery,
		sqlvalue.TokenGeometry: ruleGeometry,
		sqlvalue.TokenValue:    ruleValue,
	}

	unitVariantRules = map[string]rule{
		sqlvalue.TokenConstant: ruleConstant,
		sqlvalue.TokenValue:    ruleValue,
	}

	tupleVariantRules = map[string]rule{
		sqlvalue.TokenModel:    ruleModel,
		sqlvalue.TokenFunction: ruleFunction,
	}

	structRules = map[string]rule{
		sqlvalue.TokenThing:      ruleThing,
		sqlvalue.TokenExpression: ruleExpression,
		sqlvalue.TokenEdges:      ruleEdges,
		sqlvalue.TokenRange:      ruleRange,
	}
)
