package knowledge

// DefaultSeed returns the built-in interpretation set used when no database
// is configured. It covers every number type the tool schema accepts,
// including the master numbers, so local sessions get real guidance text
// instead of empty lookups.
func DefaultSeed() []Interpretation {
	e := func(numberType string, value int, category, content string) Interpretation {
		return Interpretation{NumberType: numberType, NumberValue: value, Category: category, Content: content}
	}
	return []Interpretation{
		e(TypeLifePath, 1, "personality", "You are a natural-born leader with strong independence and pioneering spirit. Your confidence and determination drive you to forge your own path rather than follow others. You thrive when taking initiative and making autonomous decisions."),
		e(TypeLifePath, 2, "personality", "You are a natural peacemaker with exceptional diplomatic skills and sensitivity to others' needs. Your gentle nature and ability to see all sides of a situation make you an excellent mediator. You thrive in harmonious environments where cooperation is valued."),
		e(TypeLifePath, 3, "personality", "You are creative, expressive, and naturally charismatic with a gift for communication. Your optimistic outlook and joyful energy draw people to you. You thrive when you can express yourself creatively and share your ideas with the world."),
		e(TypeLifePath, 3, "strengths", "Your greatest strengths are creativity, verbal expression, and the ability to inspire others through communication. You excel at art, writing, speaking, and any form of creative expression. Your enthusiasm is contagious and uplifting."),
		e(TypeLifePath, 3, "challenges", "You may struggle with scattered energy, superficiality, or difficulty finishing what you start. Learning to focus your creative gifts on meaningful projects is essential. Avoid the tendency to be overly critical of yourself or others."),
		e(TypeLifePath, 3, "career", "You excel in creative fields, communication, entertainment, or any role involving self-expression. Consider careers in writing, performing arts, marketing, or public speaking. You thrive when you can share your creativity with others."),
		e(TypeLifePath, 3, "relationships", "In relationships, you bring joy, creativity, and vibrant energy. You need a partner who appreciates your expressiveness and gives you room for creative pursuits. Communication and shared laughter are essential to your romantic fulfillment."),
		e(TypeLifePath, 4, "personality", "You are practical, disciplined, and value stability and structure in all areas of life. Your systematic approach and strong work ethic make you a reliable foundation for others. You thrive when building solid, lasting structures."),
		e(TypeLifePath, 5, "personality", "You are adventurous, freedom-loving, and crave variety and new experiences. Your adaptable nature and curiosity drive you to explore all life has to offer. You thrive when you have the freedom to change and grow."),
		e(TypeLifePath, 6, "personality", "You are nurturing, responsible, and deeply committed to creating harmony and caring for others. Your compassionate nature and desire to serve make you a natural healer and counselor. You thrive when you can make others' lives better."),
		e(TypeLifePath, 7, "personality", "You are analytical, introspective, and seek deep understanding of life's mysteries. Your philosophical nature and need for solitude drive your quest for truth and wisdom. You thrive when you can explore ideas and develop your inner knowledge."),
		e(TypeLifePath, 8, "personality", "You are ambitious, powerful, and have a natural ability to manifest material success. Your business acumen and leadership in the material world drive you toward achievement. You thrive when building empires and wielding influence."),
		e(TypeLifePath, 9, "personality", "You are compassionate, humanitarian, and driven by a desire to serve humanity. Your universal love and wisdom make you a natural healer and teacher. You thrive when you can make the world a better place for all."),
		e(TypeLifePath, 11, "personality", "You are highly intuitive, spiritually aware, and carry tremendous potential for enlightenment. As a master number, you're here to inspire and illuminate others through your visionary insights. You thrive when channeling your spiritual gifts to uplift humanity."),
		e(TypeLifePath, 22, "personality", "You are a master builder with the ability to turn grand visions into concrete reality. Combining practical skills with visionary insight, you're here to create lasting structures that benefit humanity. You thrive when building something of lasting value and significance."),
		e(TypeLifePath, 33, "personality", "You are the master teacher and healer, combining the intuition of 11 with the manifestation power of 22 and the compassion of 6. Your mission is to uplift humanity through unconditional love and spiritual teaching. You thrive when serving as a beacon of love and wisdom."),

		e(TypeExpression, 1, "talents", "Your natural talents include leadership, innovation, and the courage to pioneer new paths. You have an innate ability to take charge and inspire others to follow your vision. Your originality and independence are your greatest assets."),
		e(TypeExpression, 2, "talents", "Your natural talents include diplomacy, cooperation, and the ability to see all perspectives in any situation. You have a gift for bringing people together and creating harmony. Your sensitivity to others' needs makes you an exceptional peacemaker."),
		e(TypeExpression, 3, "talents", "Your natural talents include creative expression, communication, and the ability to uplift others through joy. You have a gift for words, art, or performance that brings beauty and inspiration to the world. Your optimism is contagious."),
		e(TypeExpression, 4, "talents", "Your natural talents include organization, building sustainable systems, and bringing order to chaos. You have a gift for practical problem-solving and creating structures that last. Your reliability and attention to detail are exceptional."),
		e(TypeExpression, 5, "talents", "Your natural talents include adaptability, communication, and the ability to thrive in change. You have a gift for connecting with diverse people and experiences. Your versatility and quick thinking allow you to excel in varied situations."),
		e(TypeExpression, 6, "talents", "Your natural talents include nurturing, creating beauty, and bringing harmony to any environment. You have a gift for caring service and making others feel loved and supported. Your artistic sense and compassion blend beautifully."),
		e(TypeExpression, 7, "talents", "Your natural talents include analysis, research, and uncovering hidden truths. You have a gift for seeing beneath surface appearances to underlying patterns. Your intuition combined with analytical ability gives you unique insights."),
		e(TypeExpression, 8, "talents", "Your natural talents include business acumen, leadership in the material world, and the ability to manifest abundance. You have a gift for seeing opportunities and organizing resources effectively. Your natural authority commands respect."),
		e(TypeExpression, 9, "talents", "Your natural talents include compassion, wisdom, and the ability to see life from a universal perspective. You have a gift for understanding human nature and inspiring others to their highest potential. Your generous spirit touches many lives."),
		e(TypeExpression, 11, "talents", "Your natural talents include intuition, spiritual awareness, and the ability to channel higher guidance. You have a gift for inspiring others through your visionary insights and spiritual presence. Your sensitivity to subtle energies is exceptional."),
		e(TypeExpression, 22, "talents", "Your natural talents include visionary building, practical mastery, and the ability to manifest large-scale projects. You have a gift for seeing the grand vision while managing every practical detail. Your combination of idealism and pragmatism is rare and powerful."),
		e(TypeExpression, 33, "talents", "Your natural talents include unconditional love, spiritual healing, and the ability to teach through your very presence. You have a gift for combining spiritual wisdom with practical compassion. Your loving energy transforms everyone you meet."),

		e(TypeSoulUrge, 1, "personality", "Your deepest desire is for independence, leadership, and the freedom to forge your own path. You crave opportunities to lead and innovate without constraint. Your inner self seeks recognition for your unique contributions."),
		e(TypeSoulUrge, 2, "personality", "Your deepest desire is for harmony, partnership, and meaningful connections with others. You crave peace and cooperation in all relationships. Your inner self seeks to build bridges and create unity."),
		e(TypeSoulUrge, 3, "personality", "Your deepest desire is for creative self-expression and joyful connection with others. You crave opportunities to share your creativity and uplift others through your art or communication. Your inner self seeks celebration and beauty."),
		e(TypeSoulUrge, 4, "personality", "Your deepest desire is for security, order, and building something lasting and meaningful. You crave stability and the satisfaction of creating solid foundations. Your inner self seeks practical accomplishment and tangible results."),
		e(TypeSoulUrge, 5, "personality", "Your deepest desire is for freedom, adventure, and diverse experiences. You crave variety, change, and the opportunity to explore life without limitations. Your inner self seeks excitement and new horizons."),
		e(TypeSoulUrge, 6, "personality", "Your deepest desire is to nurture, serve, and create beauty and harmony around you. You crave the opportunity to care for others and make their lives better. Your inner self seeks to love and be loved."),
		e(TypeSoulUrge, 7, "personality", "Your deepest desire is for understanding, wisdom, and time for inner reflection. You crave solitude to think deeply and uncover life's mysteries. Your inner self seeks truth and spiritual understanding."),
		e(TypeSoulUrge, 8, "personality", "Your deepest desire is for material success, achievement, and recognition for your accomplishments. You crave power and the resources to make a significant impact. Your inner self seeks mastery and abundance."),
		e(TypeSoulUrge, 9, "personality", "Your deepest desire is to serve humanity, spread compassion, and make the world a better place for all. You crave opportunities to give back and help others transform. Your inner self seeks universal love and understanding."),
		e(TypeSoulUrge, 11, "personality", "Your deepest desire is for spiritual illumination, intuitive understanding, and the ability to inspire others. You crave connection with higher consciousness and opportunities to share spiritual insights. Your inner self seeks enlightenment."),
		e(TypeSoulUrge, 22, "personality", "Your deepest desire is to build something lasting and significant that serves humanity for generations. You crave opportunities to manifest grand visions into concrete reality. Your inner self seeks to leave a meaningful legacy."),
		e(TypeSoulUrge, 33, "personality", "Your deepest desire is to teach universal love, heal others through compassion, and serve as a spiritual guide. You crave opportunities to embody and share unconditional love. Your inner self seeks to uplift all of humanity."),

		e(TypeBirthday, 1, "personality", "Your birth day gives you natural leadership abilities and pioneering spirit. You have an innate drive to be first and forge your own path. Independence and originality are your birth-given gifts."),
		e(TypeBirthday, 2, "personality", "Your birth day gives you exceptional sensitivity and diplomatic skills. You have an innate ability to understand others and bring people together. Cooperation and harmony are your birth-given gifts."),
		e(TypeBirthday, 3, "personality", "Your birth day gives you creative expression and natural charisma. You have an innate gift for communication and bringing joy to others. Creativity and optimism are your birth-given gifts."),
		e(TypeBirthday, 4, "personality", "Your birth day gives you practical skills and exceptional organizational ability. You have an innate talent for building and creating order. Reliability and systematic thinking are your birth-given gifts."),
		e(TypeBirthday, 5, "personality", "Your birth day gives you adaptability and love of freedom. You have an innate ability to thrive in change and connect with diverse people. Versatility and adventure are your birth-given gifts."),
		e(TypeBirthday, 6, "personality", "Your birth day gives you nurturing abilities and a sense of responsibility. You have an innate gift for creating harmony and caring for others. Compassion and service are your birth-given gifts."),
		e(TypeBirthday, 7, "personality", "Your birth day gives you analytical mind and spiritual awareness. You have an innate ability to see beneath surfaces and uncover truth. Wisdom and intuition are your birth-given gifts."),
		e(TypeBirthday, 8, "personality", "Your birth day gives you business acumen and natural authority. You have an innate ability to manifest material success and lead in practical matters. Ambition and power are your birth-given gifts."),
		e(TypeBirthday, 9, "personality", "Your birth day gives you compassion and universal understanding. You have an innate ability to serve humanity and inspire others. Wisdom and generosity are your birth-given gifts."),
		e(TypeBirthday, 11, "personality", "Your birth day gives you exceptional intuition and spiritual sensitivity. You have an innate ability to inspire and channel higher wisdom. Spiritual awareness and inspiration are your birth-given gifts."),
		e(TypeBirthday, 22, "personality", "Your birth day gives you master building abilities and practical vision. You have an innate ability to manifest large-scale projects and create lasting impact. Visionary leadership and practical mastery are your birth-given gifts."),
		e(TypeBirthday, 33, "personality", "Your birth day gives you the ability to teach through unconditional love and healing presence. You have an innate gift for spiritual healing and guiding others. Compassionate wisdom and healing are your birth-given gifts."),

		e(TypePersonalYear, 1, "personality", "This is a year of new beginnings, fresh starts, and taking initiative. Plant seeds for future growth and embrace leadership opportunities. This is your time to start new projects and forge your own path."),
		e(TypePersonalYear, 2, "personality", "This is a year of cooperation, partnership, and patient development. Focus on relationships and collaborative projects. This is your time to build alliances and practice diplomacy."),
		e(TypePersonalYear, 3, "personality", "This is a year of creative expression, social activity, and joyful communication. Express yourself creatively and enjoy life's pleasures. This is your time to share your gifts and celebrate."),
		e(TypePersonalYear, 4, "personality", "This is a year of hard work, building foundations, and practical accomplishment. Focus on organization and creating lasting structures. This is your time to work diligently toward concrete goals."),
		e(TypePersonalYear, 5, "personality", "This is a year of change, freedom, and new experiences. Embrace variety and be open to unexpected opportunities. This is your time to break free from limitation and explore new horizons."),
		e(TypePersonalYear, 6, "personality", "This is a year of responsibility, service, and creating harmony in home and relationships. Focus on caring for others and beautifying your environment. This is your time to nurture and create balance."),
		e(TypePersonalYear, 7, "personality", "This is a year of inner reflection, spiritual growth, and seeking deeper understanding. Take time for solitude and contemplation. This is your time to develop wisdom and connect with your inner self."),
		e(TypePersonalYear, 8, "personality", "This is a year of achievement, material success, and recognition for your efforts. Focus on career advancement and financial growth. This is your time to manifest abundance and step into your power."),
		e(TypePersonalYear, 9, "personality", "This is a year of completion, letting go, and preparing for new cycles. Release what no longer serves and focus on humanitarian service. This is your time to tie up loose ends and give back."),
	}
}
