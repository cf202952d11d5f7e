package parser

// stopWords are dropped from keyword extraction. A word is also dropped when
// it contains any of these as a substring.
var stopWords = []string{
	// time expressions
	"어제", "오늘", "내일", "그제", "모레", "언제", "지금", "나중", "먼저", "다음",
	"아침", "점심", "저녁", "새벽", "오전", "오후", "밤중", "한밤중",

	// dream framing
	"꿈에서", "꿈속에서", "꿈이었", "꿈같은", "꿈을", "꿈의",

	// connectives and adverbs
	"그리고", "그런데", "하지만", "그래서", "또한", "또", "그냥", "조금", "많이",
	"정말", "진짜", "아주", "매우", "너무", "좀", "약간", "살짝", "완전", "정말로", "진짜로",

	// demonstratives and question words
	"이것", "그것", "저것", "이거", "그거", "저거", "이런", "그런", "저런",
	"여기", "거기", "저기", "어디", "무엇", "누구", "어떻게", "왜",

	// auxiliary verbs
	"있다", "없다", "이다", "아니다", "같다", "다르다", "되다", "하다", "가다", "오다",
	"있었", "없었", "이었", "아니었", "같았", "달랐", "되었", "했다", "갔다", "왔다",
	"있어", "없어", "이야", "아니야", "같아", "달라", "되어", "해서", "가서", "와서",

	// pronouns
	"나는", "내가", "나를", "나에게", "나의", "우리", "우리가", "우리를", "우리의",
	"너는", "네가", "너를", "너에게", "너의", "당신", "당신이", "당신을", "당신의",
	"그는", "그가", "그를", "그에게", "그의", "그녀", "그녀가", "그녀를", "그녀의",

	// endings
	"것이", "것을", "것에", "것과", "거야", "거였", "거에요",
	"습니다", "했습니다", "이요", "에요", "네요", "데요", "예요", "이에요", "이었어요", "였어요",
}

// salientWords are words that tend to carry meaning in a dream narrative.
var salientWords = map[string]struct{}{}

func init() {
	for _, group := range [][]string{
		// people
		{"사람", "사람들", "아이", "아기", "어른", "노인", "남자", "여자", "가족", "엄마", "아빠",
			"형", "누나", "동생", "할머니", "할아버지", "친구", "연인", "애인", "남편", "아내",
			"선생님", "의사", "경찰"},
		// animals
		{"강아지", "고양이", "새", "물고기", "호랑이", "사자", "코끼리", "말", "소", "돼지",
			"닭", "오리", "거북이", "뱀", "곰", "여우", "늑대", "토끼"},
		// places
		{"집", "학교", "병원", "회사", "가게", "길", "바다", "산", "강", "하늘", "건물",
			"방", "화장실", "부엌", "침실", "거실", "정원", "마당"},
		// objects
		{"자동차", "버스", "지하철", "비행기", "배", "자전거", "오토바이", "컴퓨터", "핸드폰",
			"텔레비전", "냉장고", "세탁기"},
		// food
		{"밥", "물", "과일", "고기", "생선", "빵", "우유", "커피", "술", "사과", "바나나",
			"포도", "딸기", "수박"},
		// valuables and nature
		{"돈", "금", "보석", "선물", "편지", "책", "사진", "그림", "꽃", "나무", "풀", "잎",
			"열매", "씨앗"},
		{"불", "바람", "땅", "돌", "모래", "얼음", "눈", "비", "구름"},
		// actions and feelings
		{"웃다", "울다", "놀다", "자다", "먹다", "마시다", "보다", "듣다", "걷다", "뛰다",
			"날다", "헤엄치다", "춤추다", "노래하다", "말하다", "이야기하다", "전화하다",
			"만나다", "헤어지다", "사랑하다", "미워하다", "무서워하다", "기뻐하다", "슬퍼하다",
			"화나다", "놀라다", "당황하다", "실망하다"},
	} {
		for _, w := range group {
			salientWords[w] = struct{}{}
		}
	}
}

// IsSalient reports whether word is in the dream vocabulary.
func IsSalient(word string) bool {
	_, ok := salientWords[word]
	return ok
}
