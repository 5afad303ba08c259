package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "parse_error":
			return "解析エラー"
		case "duplicate_key":
			return "キーが重複しています"
		case "invalid_schema":
			return "スキーマが不正です"
		case "unresolved_ref":
			return "参照を解決できません"
		case "ref_cycle":
			return "参照が循環しています"
		case "undeclared_required":
			return "required が未宣言のプロパティを指しています"
		case "invalid_default_source":
			return "$default の記述が不正です"
		case "invalid_prompt":
			return "x-prompt の記述が不正です"
		case "invalid_pattern":
			return "pattern が正規表現として不正です"
		case "duplicate_alias":
			return "エイリアスが重複しています"
		case "invalid_default":
			return "default 値がスキーマに適合しません"
		case "unknown_option":
			return "未知のオプションです"
		case "required":
			return "必須オプションが不足しています"
		case "unknown_source":
			return "未知の $default ソースです"
		case "prompt_unavailable":
			return "プロンプトを利用できません"
		case "invalid_type":
			return "型が不正です"
		case "invalid_enum":
			return "許可されていない値です"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "pattern":
			return "パターンに一致しません"
		case "not_multiple_of":
			return "指定の倍数ではありません"
		case "invalid_format":
			return "形式が不正です"
		case "no_match":
			return "どのスキーマにも一致しません"
		case "ambiguous":
			return "複数のスキーマに一致しました"
		}
	default: // "en"
		switch code {
		case "parse_error":
			return "parse error"
		case "duplicate_key":
			return "duplicate key"
		case "invalid_schema":
			return "invalid schema"
		case "unresolved_ref":
			return "unresolved reference"
		case "ref_cycle":
			return "reference cycle"
		case "undeclared_required":
			return "required names an undeclared property"
		case "invalid_default_source":
			return "invalid $default descriptor"
		case "invalid_prompt":
			return "invalid x-prompt descriptor"
		case "invalid_pattern":
			return "invalid pattern"
		case "duplicate_alias":
			return "duplicate alias"
		case "invalid_default":
			return "default value does not match its schema"
		case "unknown_option":
			return "unknown option"
		case "required":
			return "required option missing"
		case "unknown_source":
			return "unknown $default source"
		case "prompt_unavailable":
			return "prompt unavailable"
		case "invalid_type":
			return "invalid type"
		case "invalid_enum":
			return "value not allowed"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "pattern":
			return "pattern mismatch"
		case "not_multiple_of":
			return "not a multiple of the declared factor"
		case "invalid_format":
			return "invalid format"
		case "no_match":
			return "no schema matched"
		case "ambiguous":
			return "more than one schema matched"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
