package leetcode

const profileQuery = `query userPublicProfile($username: String!) {
  matchedUser(username: $username) {
    username
    profile {
      realName
      websites
      countryName
      company
      school
      aboutMe
      reputation
      ranking
    }
    submitStats {
      acSubmissionNum { difficulty count submissions }
      totalSubmissionNum { difficulty count submissions }
    }
  }
}`

const submissionCountQuery = `query userSubmissionCount($username: String!) {
  matchedUser(username: $username) {
    submitStats {
      totalSubmissionNum { difficulty count submissions }
    }
  }
}`

const contestHistoryQuery = `query userContestRankingInfo($username: String!) {
  userContestRanking(username: $username) {
    attendedContestsCount
    rating
    globalRanking
    totalParticipants
    topPercentage
  }
  userContestRankingHistory(username: $username) {
    attended
    trendDirection
    problemsSolved
    totalProblems
    finishTimeInSeconds
    rating
    ranking
    contest { title startTime }
  }
}`

const recentSubmissionsQuery = `query recentSubmissions($username: String!, $limit: Int!) {
  recentSubmissionList(username: $username, limit: $limit) {
    title
    titleSlug
    timestamp
    statusDisplay
    lang
  }
}`

const userStatusQuery = `query globalData {
  userStatus {
    isSignedIn
    username
  }
}`

const solvedQuestionsQuery = `query problemsetQuestionList($categorySlug: String, $limit: Int, $skip: Int, $filters: QuestionListFilterInput) {
  problemsetQuestionList: questionList(categorySlug: $categorySlug, limit: $limit, skip: $skip, filters: $filters) {
    total: totalNum
    questions: data {
      title
      titleSlug
      status
    }
  }
}`

const allContestsQuery = `query allContests {
  allContests {
    title
    titleSlug
    startTime
  }
}`

const contestQuestionsQuery = `query contestInfo($titleSlug: String!) {
  contest(titleSlug: $titleSlug) {
    title
    questions {
      title
      titleSlug
    }
  }
}`

const questionQuery = `query questionData($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
    questionFrontendId
    title
    titleSlug
    difficulty
    isPaidOnly
    topicTags { name }
    companyTags { name }
  }
}`
